package entity

import "fmt"

// QuestionBank - документ банка вопросов: {topics, questions}
type QuestionBank struct {
	Topics    []string   `json:"topics"`
	Questions []Question `json:"questions"`
}

// Validate проверяет каждый вопрос и уникальность их ID
func (b *QuestionBank) Validate() error {
	seen := make(map[string]struct{}, len(b.Questions))
	for i := range b.Questions {
		q := &b.Questions[i]
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question #%d: %w", i+1, err)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// TopicList возвращает темы для выбора: "ALL" первым, затем темы банка без повторов.
// Если банк не перечисляет темы, они собираются из самих вопросов в порядке появления.
func (b *QuestionBank) TopicList() []string {
	source := b.Topics
	if len(source) == 0 {
		for _, q := range b.Questions {
			source = append(source, q.Topic)
		}
	}

	topics := []string{TopicAll}
	seen := map[string]struct{}{TopicAll: {}}
	for _, t := range source {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}
	return topics
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
)

// Коды ошибок PostgreSQL, которые обрабатываются отдельно
const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// QuestionRepo читает банк вопросов из таблицы questions
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// LoadBank загружает весь банк вопросов одним запросом.
// Отсутствие таблицы или битые данные возвращаются как *apperrors.LoadError.
func (r *QuestionRepo) LoadBank() (*entity.QuestionBank, error) {
	var questions []entity.Question
	if err := r.db.Order("id").Find(&questions).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
			return nil, apperrors.NewLoadError("postgres", fmt.Errorf("questions table is missing, run migrations: %w", err))
		}
		return nil, apperrors.NewLoadError("postgres", err)
	}

	var topics []string
	if err := r.db.Model(&entity.Question{}).
		Select("topic").
		Group("topic").
		Order("MIN(id)").
		Pluck("topic", &topics).Error; err != nil {
		return nil, apperrors.NewLoadError("postgres", err)
	}

	bank := &entity.QuestionBank{Topics: topics, Questions: questions}
	if err := bank.Validate(); err != nil {
		return nil, apperrors.NewLoadError("postgres", err)
	}
	return bank, nil
}

// UpsertBatch сохраняет пакет вопросов, обновляя уже существующие по ID
func (r *QuestionRepo) UpsertBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"topic", "text", "text_bn", "options", "correct_option", "explanation", "explanation_bn", "updated_at"}),
		}).CreateInBatches(&questions, 200).Error
	})
}

// Create добавляет один вопрос. Повтор ID возвращает apperrors.ErrConflict.
func (r *QuestionRepo) Create(question *entity.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: question %s already exists", apperrors.ErrConflict, question.ID)
		}
		return err
	}
	return nil
}

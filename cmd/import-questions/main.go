package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/lib/pq"

	"github.com/yourusername/exam-prep-api/internal/config"
	"github.com/yourusername/exam-prep-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-prep-api/internal/pkg/errors"
	"github.com/yourusername/exam-prep-api/internal/repository/jsonfile"
	pgRepo "github.com/yourusername/exam-prep-api/internal/repository/postgres"
	"github.com/yourusername/exam-prep-api/pkg/database"
)

// Импорт банка вопросов из JSON файла в PostgreSQL.
//
//	import-questions -file data/questions.json            # COPY через lib/pq
//	import-questions -file data/questions.json -mode gorm # пакетный upsert через GORM
//	import-questions -mode insert                         # только новые вопросы, существующие пропускаются
//	import-questions -force-version 1                     # снять dirty-состояние миграций
func main() {
	configPath := flag.String("config", "config/config.yaml", "путь к файлу конфигурации")
	file := flag.String("file", "", "JSON файл банка вопросов (по умолчанию questions.path из конфигурации)")
	mode := flag.String("mode", "copy", "способ загрузки: copy | gorm | insert")
	forceVersion := flag.Int("force-version", -1, "принудительно установить версию миграций и выйти")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresURL())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	m, err := database.NewMigrator(db, cfg.Database.MigrationsPath)
	if err != nil {
		log.Fatal(err)
	}

	if *forceVersion >= 0 {
		fmt.Printf("Forcing migration version to %d to clean dirty state...\n", *forceVersion)
		if err := m.Force(*forceVersion); err != nil {
			log.Fatalf("Failed to force version: %v", err)
		}
		fmt.Println("Success! Dirty state cleaned. You can now run the app normally.")
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	path := *file
	if path == "" {
		path = cfg.Questions.Path
	}
	bank, err := jsonfile.LoadBank(path)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[ImportQuestions] Прочитано %d вопросов из %s", len(bank.Questions), path)

	switch *mode {
	case "copy":
		err = copyQuestions(db, bank.Questions)
	case "gorm":
		err = upsertWithGorm(cfg, bank.Questions)
	case "insert":
		err = insertNew(cfg, bank.Questions)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Printf("[ImportQuestions] Ошибка импорта: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Success! %d questions imported.\n", len(bank.Questions))
}

var questionColumns = []string{"id", "topic", "text", "text_bn", "options", "correct_option", "explanation", "explanation_bn"}

// copyQuestions загружает вопросы через COPY во временную таблицу и переносит их в questions одним upsert
func copyQuestions(db *sql.DB, questions []entity.Question) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TEMP TABLE questions_staging (LIKE questions INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("questions_staging", questionColumns...))
	if err != nil {
		return fmt.Errorf("failed to prepare COPY: %w", err)
	}

	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
		if _, err := stmt.Exec(q.ID, q.Topic, q.Text, q.TextBN, string(options), q.CorrectOption, q.Explanation, q.ExplanationBN); err != nil {
			stmt.Close()
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
	}
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush COPY: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	res, err := tx.Exec(`
		INSERT INTO questions (id, topic, text, text_bn, options, correct_option, explanation, explanation_bn)
		SELECT id, topic, text, text_bn, options, correct_option, explanation, explanation_bn FROM questions_staging
		ON CONFLICT (id) DO UPDATE SET
			topic = EXCLUDED.topic,
			text = EXCLUDED.text,
			text_bn = EXCLUDED.text_bn,
			options = EXCLUDED.options,
			correct_option = EXCLUDED.correct_option,
			explanation = EXCLUDED.explanation,
			explanation_bn = EXCLUDED.explanation_bn,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("failed to upsert from staging: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Printf("[ImportQuestions] Обновлено строк: %d", n)
	}

	return tx.Commit()
}

// openGorm открывает подключение GORM; вызывающий закрывает возвращённый *sql.DB
func openGorm(cfg *config.Config) (*pgRepo.QuestionRepo, *sql.DB, error) {
	gormDB, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := database.GetSQLDB(gormDB)
	if err != nil {
		return nil, nil, err
	}
	return pgRepo.NewQuestionRepo(gormDB), sqlDB, nil
}

// insertNew добавляет вопросы по одному и пропускает уже существующие ID
func insertNew(cfg *config.Config, questions []entity.Question) error {
	repo, sqlDB, err := openGorm(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	skipped := 0
	for i := range questions {
		if err := repo.Create(&questions[i]); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				skipped++
				continue
			}
			return err
		}
	}
	log.Printf("[ImportQuestions] Добавлено %d, пропущено существующих: %d", len(questions)-skipped, skipped)
	return nil
}

// upsertWithGorm сохраняет вопросы пакетами через репозиторий
func upsertWithGorm(cfg *config.Config, questions []entity.Question) error {
	repo, sqlDB, err := openGorm(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return repo.UpsertBatch(questions)
}

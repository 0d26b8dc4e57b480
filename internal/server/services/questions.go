package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
	"github.com/dmitrijs2005/shadowinterview/internal/server/repositories/repomanager"
)

// QuestionService manages the shared interview question bank.
type QuestionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewQuestionService(db *sql.DB, m repomanager.RepositoryManager) *QuestionService {
	return &QuestionService{db: db, repomanager: m}
}

func (s *QuestionService) Add(ctx context.Context, text, category string) (*models.Question, error) {
	q, err := newQuestion(0, text, category)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Questions(s.db).Create(ctx, q)
}

func (s *QuestionService) List(ctx context.Context) ([]*models.Question, error) {
	return s.repomanager.Questions(s.db).List(ctx)
}

// Replace overwrites question id. Unknown ids yield common.ErrorNotFound.
func (s *QuestionService) Replace(ctx context.Context, id int64, text, category string) error {
	q, err := newQuestion(id, text, category)
	if err != nil {
		return err
	}
	return s.repomanager.Questions(s.db).Replace(ctx, q)
}

// Limits of the questions table columns.
const (
	maxQuestionLen = 500
	maxCategoryLen = 100
)

func newQuestion(id int64, text, category string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)
	if text == "" || category == "" {
		return nil, fmt.Errorf("%w: question and category are required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(text) > maxQuestionLen {
		return nil, fmt.Errorf("%w: question must be at most %d characters", common.ErrorValidation, maxQuestionLen)
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return nil, fmt.Errorf("%w: category must be at most %d characters", common.ErrorValidation, maxCategoryLen)
	}
	return &models.Question{ID: id, Text: text, Category: category}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository"

	jsoniter "github.com/json-iterator/go"
	openai "github.com/sashabaranov/go-openai"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Canned answers served when the LLM quota is exhausted, so the assistant
// pages degrade instead of erroring out.
var fallbackRecommendations = []domain.Recommendation{
	{Title: "The Pragmatic Programmer", Author: "Hunt & Thomas", Reason: "Essentiel pour tout développeur qui veut progresser."},
	{Title: "Clean Architecture", Author: "Robert C. Martin", Reason: "Complément naturel à Clean Code — penser en systèmes."},
	{Title: "Refactoring", Author: "Martin Fowler", Reason: "Apprendre à améliorer un code existant sans tout casser."},
}

const (
	fallbackSummary = "Ce livre est une référence incontournable dans son domaine. Il aborde les concepts fondamentaux de manière claire et progressive. Recommandé pour tout étudiant souhaitant approfondir ses connaissances."
	fallbackStats   = "La bibliothèque fonctionne bien avec un bon taux de disponibilité. Il est recommandé de relancer les étudiants en retard et d'identifier les livres populaires pour en commander des exemplaires supplémentaires."
	fallbackChat    = "Je suis temporairement indisponible. Veuillez réessayer dans quelques instants ou consulter directement le catalogue de la bibliothèque."
)

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

type assistantService struct {
	client    *openai.Client
	model     string
	loanRepo  repository.LoanRepository
	bookRepo  repository.BookRepository
	statsRepo repository.StatsRepository
}

// NewAssistantService talks to an OpenAI-compatible chat endpoint (Groq in
// production; baseURL selects the provider).
func NewAssistantService(
	apiKey, baseURL, model string,
	loanRepo repository.LoanRepository,
	bookRepo repository.BookRepository,
	statsRepo repository.StatsRepository,
) AssistantService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &assistantService{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		statsRepo: statsRepo,
	}
}

func (s *assistantService) ask(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// isQuotaError matches rate-limit style failures that should degrade to the
// canned fallbacks rather than surface as a 500.
func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

func (s *assistantService) Chat(ctx context.Context, message string) (string, error) {
	prompt := fmt.Sprintf(`Tu es un assistant bibliothécaire expert de la bibliothèque BIT.
Tu aides les étudiants à trouver des livres et répondre à leurs questions.
Réponds en français, de façon concise (maximum 3 phrases).

Question : %s`, message)

	reply, err := s.ask(ctx, prompt)
	if err != nil {
		if isQuotaError(err) {
			logger.Warn("assistant quota exhausted, serving chat fallback", "error", err)
			return fallbackChat, nil
		}
		return "", err
	}
	return reply, nil
}

func (s *assistantService) Recommend(ctx context.Context, userID int32) ([]domain.Recommendation, bool, error) {
	loans, err := s.loanRepo.List(ctx, domain.LoanFilter{UserID: userID})
	if err != nil {
		return nil, false, err
	}
	if len(loans) == 0 {
		return nil, false, nil
	}
	if len(loans) > 10 {
		loans = loans[:10]
	}

	var borrowed []string
	for _, l := range loans {
		borrowed = append(borrowed, fmt.Sprintf("« %s » de %s (%s)", l.Book.Title, l.Book.Author, l.Book.Genre))
	}

	prompt := fmt.Sprintf(`Tu es un bibliothécaire expert. Un étudiant a emprunté : %s.
Recommande 3 livres adaptés à son profil.
Réponds UNIQUEMENT en JSON valide, sans texte avant ou après :
[{"title":"...","author":"...","reason":"..."}]`, strings.Join(borrowed, ", "))

	text, err := s.ask(ctx, prompt)
	if err != nil {
		if isQuotaError(err) {
			logger.Warn("assistant quota exhausted, serving recommendation fallback", "error", err)
			return fallbackRecommendations, true, nil
		}
		return nil, false, err
	}

	// Models occasionally wrap the JSON in prose; salvage the array.
	raw := jsonArrayPattern.FindString(text)
	if raw == "" {
		return fallbackRecommendations, true, nil
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return fallbackRecommendations, true, nil
	}
	return recs, false, nil
}

func (s *assistantService) Summarize(ctx context.Context, bookID int32) (string, bool, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return "", false, err
	}

	prompt := fmt.Sprintf("Résume en 3 phrases claires le livre « %s » de %s pour des étudiants universitaires.", book.Title, book.Author)
	summary, err := s.ask(ctx, prompt)
	if err != nil {
		if isQuotaError(err) {
			logger.Warn("assistant quota exhausted, serving summary fallback", "error", err)
			return fallbackSummary, true, nil
		}
		return "", false, err
	}
	return summary, false, nil
}

func (s *assistantService) StatsSummary(ctx context.Context) (string, bool, error) {
	totalBooks, err := s.statsRepo.CountBooks(ctx)
	if err != nil {
		return "", false, err
	}
	availableBooks, err := s.statsRepo.SumAvailableCopies(ctx)
	if err != nil {
		return "", false, err
	}
	activeLoans, err := s.statsRepo.CountLoansByStatus(ctx, domain.LoanStatusActive)
	if err != nil {
		return "", false, err
	}
	lateLoans, err := s.statsRepo.CountLoansByStatus(ctx, domain.LoanStatusLate)
	if err != nil {
		return "", false, err
	}

	prompt := fmt.Sprintf(`Tu es un assistant bibliothécaire. Voici les statistiques de la bibliothèque BIT :
- Total livres : %d
- Livres disponibles : %d
- Emprunts actifs : %d
- Emprunts en retard : %d
Donne un commentaire de 2 phrases sur l'état de la bibliothèque, puis une recommandation d'action concrète. Réponds en français.`,
		totalBooks, availableBooks, activeLoans, lateLoans)

	summary, err := s.ask(ctx, prompt)
	if err != nil {
		if isQuotaError(err) {
			logger.Warn("assistant quota exhausted, serving stats fallback", "error", err)
			return fallbackStats, true, nil
		}
		return "", false, err
	}
	return summary, false, nil
}

package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/keyxmakerx/almanac/internal/apperror"
	"github.com/keyxmakerx/almanac/internal/sanitize"
)

// defaultConfigMessage is the revision message for a seeded document.
const defaultConfigMessage = "Create default config for date plugin."

// maxRevisions caps how many revisions ListRevisions returns.
const maxRevisions = 100

// maxMessageLen is the longest revision message the message columns hold.
const maxMessageLen = 255

// DateService defines business logic for the date plugin. Every call loads
// the namespace's configuration afresh; nothing is cached between calls.
// Only EnsureDefault and SaveDocument write. A namespace with no stored
// document reads as DefaultConfigYAML.
type DateService interface {
	// Configuration documents.
	EnsureDefault(ctx context.Context, namespace string) error
	GetDocument(ctx context.Context, namespace string) (*StoredConfig, error)
	SaveDocument(ctx context.Context, namespace, document, message string) error
	ListRevisions(ctx context.Context, namespace string, limit int) ([]StoredConfig, error)

	// Rendering.
	Format(ctx context.Context, namespace string, ref DateReference) (*FormatResult, error)
	RenderMarkdown(ctx context.Context, namespace, md string) (string, []TagError, error)
}

// dateService is the default DateService implementation.
type dateService struct {
	repo ConfigRepository
	now  func() time.Time
}

// NewDateService creates a DateService backed by the given repository.
func NewDateService(repo ConfigRepository) DateService {
	return &dateService{repo: repo, now: time.Now}
}

// EnsureDefault stores DefaultConfigYAML for a namespace that has no
// document yet. Existing documents are left alone.
func (s *dateService) EnsureDefault(ctx context.Context, namespace string) error {
	existing, err := s.repo.Get(ctx, namespace)
	if err != nil {
		return fmt.Errorf("check existing config: %w", err)
	}
	if existing != nil {
		return nil
	}

	if err := s.repo.Save(ctx, &StoredConfig{
		Namespace: namespace,
		Document:  DefaultConfigYAML,
		Message:   defaultConfigMessage,
		UpdatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("store default config: %w", err)
	}
	slog.Info("seeded default date config", slog.String("namespace", namespace))
	return nil
}

// GetDocument returns the stored document for a namespace, or the unsaved
// default document when none is stored. The default has a zero UpdatedAt.
func (s *dateService) GetDocument(ctx context.Context, namespace string) (*StoredConfig, error) {
	sc, err := s.repo.Get(ctx, namespace)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("get config: %w", err))
	}
	if sc == nil {
		return &StoredConfig{Namespace: namespace, Document: DefaultConfigYAML, Message: defaultConfigMessage}, nil
	}
	return sc, nil
}

// SaveDocument validates a YAML document and stores it as the namespace's
// current configuration.
func (s *dateService) SaveDocument(ctx context.Context, namespace, document, message string) error {
	if strings.TrimSpace(document) == "" {
		return apperror.NewValidation("config document is required")
	}
	if _, err := ValidateDocument([]byte(document)); err != nil {
		return toAppError(err)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = "Update date config."
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return apperror.NewValidation(fmt.Sprintf("revision message must be at most %d characters", maxMessageLen))
	}
	if err := s.repo.Save(ctx, &StoredConfig{
		Namespace: namespace,
		Document:  document,
		Message:   message,
		UpdatedAt: s.now().UTC(),
	}); err != nil {
		return apperror.NewInternal(fmt.Errorf("save config: %w", err))
	}
	return nil
}

// ListRevisions returns the namespace's configuration history, newest first.
func (s *dateService) ListRevisions(ctx context.Context, namespace string, limit int) ([]StoredConfig, error) {
	if limit <= 0 || limit > maxRevisions {
		limit = maxRevisions
	}
	revs, err := s.repo.ListRevisions(ctx, namespace, limit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list revisions: %w", err))
	}
	return revs, nil
}

// Format renders one date reference.
func (s *dateService) Format(ctx context.Context, namespace string, ref DateReference) (*FormatResult, error) {
	cfg, err := s.loadConfig(ctx, namespace)
	if err != nil {
		return nil, err
	}

	now := s.now()
	text, err := Render(ref, cfg, now)
	if err != nil {
		return nil, toAppError(err)
	}
	weekday, err := Weekday(ref, cfg)
	if err != nil {
		return nil, toAppError(err)
	}

	result := &FormatResult{Mode: cfg.Mode(), Text: text, Weekday: weekday}
	if ref.IncludeAge {
		age, err := ComputeAgeAt(ref, cfg, now)
		if err != nil {
			return nil, toAppError(err)
		}
		result.Age = &age
	}
	return result, nil
}

// RenderMarkdown replaces every date tag in md. Tags that fail are left in
// place, logged, and returned alongside the output.
func (s *dateService) RenderMarkdown(ctx context.Context, namespace, md string) (string, []TagError, error) {
	cfg, err := s.loadConfig(ctx, namespace)
	if err != nil {
		return "", nil, err
	}

	out, tagErrs := RenderTags(md, cfg, s.now())
	for _, te := range tagErrs {
		slog.Warn("date tag not rendered",
			slog.String("namespace", namespace),
			slog.String("tag", te.Tag),
			slog.Int("offset", te.Offset),
			slog.String("error", te.Message),
		)
	}
	return out, tagErrs, nil
}

// loadConfig reads and validates the namespace's document, falling back to
// the default document without storing it.
func (s *dateService) loadConfig(ctx context.Context, namespace string) (*CalendarConfig, error) {
	sc, err := s.GetDocument(ctx, namespace)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig([]byte(sc.Document))
	if err != nil {
		return nil, toAppError(err)
	}
	return cfg, nil
}

// ValidateDocument parses and validates a YAML document the way SaveDocument
// does before storing it.
func ValidateDocument(doc []byte) (*CalendarConfig, error) {
	raw, err := ParseRawConfig(doc)
	if err != nil {
		return nil, err
	}
	cfg, err := NewCalendarConfig(*raw)
	if err != nil {
		return nil, err
	}
	if err := checkMarkup(raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkMarkup rejects names and suffixes that carry HTML, since rendered
// dates are spliced into wiki pages.
func checkMarkup(raw *RawConfig) error {
	check := func(field, val string) error {
		if sanitize.HasMarkup(val) {
			return configErr(field, "must not contain HTML markup")
		}
		return nil
	}

	for i, m := range raw.Months {
		if err := check(fmt.Sprintf("months[%d].name", i), m.Name); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("months[%d].name_short", i), m.NameShort); err != nil {
			return err
		}
	}
	for i, w := range raw.Weekdays {
		if err := check(fmt.Sprintf("weekdays[%d]", i), w); err != nil {
			return err
		}
	}
	for i, w := range raw.WeekdaysShort {
		if err := check(fmt.Sprintf("weekdays_short[%d]", i), w); err != nil {
			return err
		}
	}
	if raw.SuffixBCE != nil {
		if err := check("suffix_bce", *raw.SuffixBCE); err != nil {
			return err
		}
	}
	if raw.SuffixCE != nil {
		if err := check("suffix_ce", *raw.SuffixCE); err != nil {
			return err
		}
	}
	return nil
}

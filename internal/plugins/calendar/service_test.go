package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// --- Mock Repository ---

// mockConfigRepo implements ConfigRepository for testing.
type mockConfigRepo struct {
	getFn           func(ctx context.Context, namespace string) (*StoredConfig, error)
	saveFn          func(ctx context.Context, cfg *StoredConfig) error
	listRevisionsFn func(ctx context.Context, namespace string, limit int) ([]StoredConfig, error)
}

func (m *mockConfigRepo) Get(ctx context.Context, namespace string) (*StoredConfig, error) {
	if m.getFn != nil {
		return m.getFn(ctx, namespace)
	}
	return nil, nil
}

func (m *mockConfigRepo) Save(ctx context.Context, cfg *StoredConfig) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, cfg)
	}
	return nil
}

func (m *mockConfigRepo) ListRevisions(ctx context.Context, namespace string, limit int) ([]StoredConfig, error) {
	if m.listRevisionsFn != nil {
		return m.listRevisionsFn(ctx, namespace, limit)
	}
	return nil, nil
}

// memoryRepo returns a mock backed by a map, so Save is visible to Get.
func memoryRepo() (*mockConfigRepo, map[string]*StoredConfig) {
	store := map[string]*StoredConfig{}
	return &mockConfigRepo{
		getFn: func(_ context.Context, ns string) (*StoredConfig, error) {
			return store[ns], nil
		},
		saveFn: func(_ context.Context, cfg *StoredConfig) error {
			cp := *cfg
			store[cfg.Namespace] = &cp
			return nil
		},
	}, store
}

var fixedNow = time.Date(2024, 5, 16, 9, 0, 0, 0, time.UTC)

func newTestDateService(repo ConfigRepository) *dateService {
	return &dateService{repo: repo, now: func() time.Time { return fixedNow }}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- EnsureDefault ---

func TestEnsureDefault_SeedsMissingNamespace(t *testing.T) {
	repo, store := memoryRepo()
	svc := newTestDateService(repo)

	if err := svc.EnsureDefault(context.Background(), "wiki"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc := store["wiki"]
	if sc == nil {
		t.Fatal("expected default document to be stored")
	}
	if sc.Document != DefaultConfigYAML || sc.Message != defaultConfigMessage {
		t.Errorf("unexpected seeded config %+v", sc)
	}
	if !sc.UpdatedAt.Equal(fixedNow) {
		t.Errorf("expected timestamp %v, got %v", fixedNow, sc.UpdatedAt)
	}
}

func TestEnsureDefault_KeepsExisting(t *testing.T) {
	saved := false
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, ns string) (*StoredConfig, error) {
			return &StoredConfig{Namespace: ns, Document: "custom"}, nil
		},
		saveFn: func(_ context.Context, _ *StoredConfig) error {
			saved = true
			return nil
		},
	}
	if err := newTestDateService(repo).EnsureDefault(context.Background(), "wiki"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved {
		t.Error("existing document must not be overwritten")
	}
}

func TestEnsureDefault_RepoError(t *testing.T) {
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, _ string) (*StoredConfig, error) {
			return nil, errors.New("connection refused")
		},
	}
	if err := newTestDateService(repo).EnsureDefault(context.Background(), "wiki"); err == nil {
		t.Fatal("expected error")
	}
}

// --- GetDocument ---

func TestGetDocument_MissingReturnsDefault(t *testing.T) {
	repo := &mockConfigRepo{
		saveFn: func(_ context.Context, _ *StoredConfig) error {
			t.Fatal("reading must not store a document")
			return nil
		},
	}
	sc, err := newTestDateService(repo).GetDocument(context.Background(), "wiki")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Namespace != "wiki" || sc.Document != DefaultConfigYAML {
		t.Errorf("unexpected document %+v", sc)
	}
	if !sc.UpdatedAt.IsZero() {
		t.Errorf("expected zero timestamp for unsaved default, got %v", sc.UpdatedAt)
	}
}

func TestGetDocument_RepoError(t *testing.T) {
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, _ string) (*StoredConfig, error) {
			return nil, errors.New("connection refused")
		},
	}
	_, err := newTestDateService(repo).GetDocument(context.Background(), "wiki")
	assertAppError(t, err, 500)
}

// --- SaveDocument ---

func TestSaveDocument_Valid(t *testing.T) {
	repo, store := memoryRepo()
	svc := newTestDateService(repo)
	doc := strings.Replace(DefaultConfigYAML, "suffix_ce: CE", "suffix_ce: AR", 1)

	if err := svc.SaveDocument(context.Background(), "wiki", doc, "  Switch to AR.  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store["wiki"].Document != doc {
		t.Error("expected document to be stored verbatim")
	}
	if store["wiki"].Message != "Switch to AR." {
		t.Errorf("unexpected message %q", store["wiki"].Message)
	}
}

func TestSaveDocument_DefaultMessage(t *testing.T) {
	repo, store := memoryRepo()
	if err := newTestDateService(repo).SaveDocument(context.Background(), "wiki", DefaultConfigYAML, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store["wiki"].Message != "Update date config." {
		t.Errorf("unexpected message %q", store["wiki"].Message)
	}
}

func TestSaveDocument_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "   "},
		{"bad yaml", "months: [unclosed"},
		{"missing field", strings.Replace(DefaultConfigYAML, "suffix_bce: BCE\n", "", 1)},
		{"zero-day month", strings.Replace(DefaultConfigYAML, "days: 90", "days: 0", 1)},
		{"markup in month", strings.Replace(DefaultConfigYAML, `"Spring"`, `"<b>Spring</b>"`, 1)},
		{"markup in suffix", strings.Replace(DefaultConfigYAML, "suffix_ce: CE", `suffix_ce: "<i>CE</i>"`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockConfigRepo{
				saveFn: func(_ context.Context, _ *StoredConfig) error {
					t.Fatal("invalid document must not be saved")
					return nil
				},
			}
			err := newTestDateService(repo).SaveDocument(context.Background(), "wiki", tt.doc, "")
			assertAppError(t, err, 422)
		})
	}
}

func TestSaveDocument_MessageLength(t *testing.T) {
	repo, store := memoryRepo()
	svc := newTestDateService(repo)

	err := svc.SaveDocument(context.Background(), "wiki", DefaultConfigYAML, strings.Repeat("a", maxMessageLen+1))
	assertAppError(t, err, 422)
	if store["wiki"] != nil {
		t.Error("document with an overlong message must not be saved")
	}

	// Multi-byte characters count once each.
	msg := strings.Repeat("é", maxMessageLen)
	if err := svc.SaveDocument(context.Background(), "wiki", DefaultConfigYAML, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store["wiki"].Message != msg {
		t.Error("expected message stored unchanged")
	}
}

func TestSaveDocument_AllowsPlainAmpersand(t *testing.T) {
	repo, _ := memoryRepo()
	doc := strings.Replace(DefaultConfigYAML, `"Fall"`, `"Fall & Harvest"`, 1)
	if err := newTestDateService(repo).SaveDocument(context.Background(), "wiki", doc, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveDocument_RepoError(t *testing.T) {
	repo := &mockConfigRepo{
		saveFn: func(_ context.Context, _ *StoredConfig) error { return errors.New("disk full") },
	}
	err := newTestDateService(repo).SaveDocument(context.Background(), "wiki", DefaultConfigYAML, "")
	assertAppError(t, err, 500)
}

// --- ListRevisions ---

func TestListRevisions_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockConfigRepo{
		listRevisionsFn: func(_ context.Context, _ string, limit int) ([]StoredConfig, error) {
			gotLimit = limit
			return []StoredConfig{{Namespace: "wiki"}}, nil
		},
	}
	svc := newTestDateService(repo)

	for _, tt := range []struct{ in, want int }{{0, maxRevisions}, {-3, maxRevisions}, {500, maxRevisions}, {10, 10}} {
		if _, err := svc.ListRevisions(context.Background(), "wiki", tt.in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotLimit != tt.want {
			t.Errorf("limit %d: expected %d, got %d", tt.in, tt.want, gotLimit)
		}
	}
}

// --- Format ---

func TestFormat_DefaultWithoutStoring(t *testing.T) {
	repo, store := memoryRepo()
	svc := newTestDateService(repo)

	result, err := svc.Format(context.Background(), "wiki", newDateRef(370, 1, 1, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store) != 0 {
		t.Error("formatting must not store a document")
	}
	if result.Mode != ModeFantasy || result.Text != "Spring 1, 370 CE (age 2)" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Age == nil || *result.Age != 2 {
		t.Errorf("expected age 2, got %v", result.Age)
	}
	if result.Weekday == "" {
		t.Error("expected weekday")
	}
}

func TestFormat_RealTimeUsesClock(t *testing.T) {
	doc := strings.Replace(DefaultConfigYAML, "use_real_time: false", "use_real_time: true", 1)
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, ns string) (*StoredConfig, error) {
			return &StoredConfig{Namespace: ns, Document: doc}, nil
		},
	}
	result, err := newTestDateService(repo).Format(context.Background(), "wiki", newDateRef(1990, 5, 17, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Mode != ModeRealLife || *result.Age != 33 || result.Weekday != "Thursday" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestFormat_OutOfRange(t *testing.T) {
	repo, _ := memoryRepo()
	_, err := newTestDateService(repo).Format(context.Background(), "wiki", newDateRef(1, 7, 1, false))
	assertAppError(t, err, 422)
}

func TestFormat_BrokenStoredDocument(t *testing.T) {
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, ns string) (*StoredConfig, error) {
			return &StoredConfig{Namespace: ns, Document: "months: []"}, nil
		},
	}
	_, err := newTestDateService(repo).Format(context.Background(), "wiki", newDateRef(1, 0, 0, false))
	assertAppError(t, err, 422)
}

// --- RenderMarkdown ---

func TestRenderMarkdown(t *testing.T) {
	repo, _ := memoryRepo()
	out, tagErrs, err := newTestDateService(repo).RenderMarkdown(context.Background(), "wiki",
		"`date 372` and `date 372-9`")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "372 CE and `date 372-9`" {
		t.Errorf("unexpected output %q", out)
	}
	if len(tagErrs) != 1 {
		t.Errorf("expected 1 tag error, got %+v", tagErrs)
	}
}

func TestRenderMarkdown_RepoError(t *testing.T) {
	repo := &mockConfigRepo{
		getFn: func(_ context.Context, _ string) (*StoredConfig, error) {
			return nil, errors.New("connection refused")
		},
	}
	_, _, err := newTestDateService(repo).RenderMarkdown(context.Background(), "wiki", "x")
	assertAppError(t, err, 500)
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	roundmock "github.com/riskibarqy/golf-handicap/internal/mocks/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/id"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

// blockUntil returns a mock Run func that signals entered and waits for release.
func blockUntil(entered chan<- struct{}, release <-chan struct{}) func(mock.Arguments) {
	return func(mock.Arguments) {
		close(entered)
		<-release
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func loadedService(t *testing.T, existing ...round.Round) (*RoundService, *roundmock.Repository) {
	t.Helper()
	service, repo := newTestRoundService(t, existing...)
	if err := service.Load(context.Background()); err != nil {
		t.Fatalf("load rounds: %v", err)
	}
	return service, repo
}

func TestRoundService_RefreshKeepsCreateCommittedDuringRead(t *testing.T) {
	t.Parallel()

	service, repo := loadedService(t, storedRound("a", 1))

	entered, release := make(chan struct{}), make(chan struct{})
	repo.On("List", mock.Anything).Run(blockUntil(entered, release)).Return([]round.Round{storedRound("a", 1)}, nil).Once()
	repo.On("List", mock.Anything).Return([]round.Round{storedRound("a", 1), storedRound("r1", 2)}, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	type refreshResult struct {
		items []round.Round
		err   error
	}
	done := make(chan refreshResult, 1)
	go func() {
		items, err := service.Refresh(context.Background())
		done <- refreshResult{items: items, err: err}
	}()

	waitFor(t, entered, "refresh read")
	created, err := service.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	close(release)

	res := <-done
	if res.err != nil {
		t.Fatalf("refresh rounds: %v", res.err)
	}
	if len(res.items) != 2 {
		t.Fatalf("expected refreshed list to include created round, got %+v", res.items)
	}

	items, _ := service.Rounds(context.Background())
	if len(items) != 2 || items[1].ID != created.ID {
		t.Fatalf("expected %s to survive refresh, got %+v", created.ID, items)
	}
}

func TestRoundService_RefreshKeepsToggleCommittedDuringRead(t *testing.T) {
	t.Parallel()

	service, repo := loadedService(t, storedRound("a", 1))

	excluded := storedRound("a", 1)
	excluded.IncludeInHandicap = false

	entered, release := make(chan struct{}), make(chan struct{})
	repo.On("List", mock.Anything).Run(blockUntil(entered, release)).Return([]round.Round{storedRound("a", 1)}, nil).Once()
	repo.On("List", mock.Anything).Return([]round.Round{excluded}, nil).Once()
	repo.On("SetIncludeInHandicap", mock.Anything, "a", false).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := service.Refresh(context.Background())
		done <- err
	}()

	waitFor(t, entered, "refresh read")
	if _, err := service.SetIncludeInHandicap(context.Background(), "a", false); err != nil {
		t.Fatalf("toggle round: %v", err)
	}
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("refresh rounds: %v", err)
	}
	items, _ := service.Rounds(context.Background())
	if items[0].IncludeInHandicap {
		t.Fatalf("expected committed toggle to survive refresh")
	}
}

func TestRoundService_FailedToggleKeepsLaterToggle(t *testing.T) {
	t.Parallel()

	service, repo := loadedService(t, storedRound("a", 1))

	entered, release := make(chan struct{}), make(chan struct{})
	repo.On("SetIncludeInHandicap", mock.Anything, "a", false).Run(blockUntil(entered, release)).Return(errStoreDown).Once()
	repo.On("SetIncludeInHandicap", mock.Anything, "a", true).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := service.SetIncludeInHandicap(context.Background(), "a", false)
		done <- err
	}()

	waitFor(t, entered, "first toggle")
	if _, err := service.SetIncludeInHandicap(context.Background(), "a", true); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error from first toggle, got %v", err)
	}
	items, _ := service.Rounds(context.Background())
	if !items[0].IncludeInHandicap {
		t.Fatalf("expected second toggle value to stand")
	}
}

func TestRoundService_FailedToggleKeepsLaterToggleToSameValue(t *testing.T) {
	t.Parallel()

	service, repo := loadedService(t, storedRound("a", 1))

	entered, release := make(chan struct{}), make(chan struct{})
	repo.On("SetIncludeInHandicap", mock.Anything, "a", false).Run(blockUntil(entered, release)).Return(errStoreDown).Once()
	repo.On("SetIncludeInHandicap", mock.Anything, "a", true).Return(nil).Once()
	repo.On("SetIncludeInHandicap", mock.Anything, "a", false).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := service.SetIncludeInHandicap(context.Background(), "a", false)
		done <- err
	}()

	waitFor(t, entered, "first toggle")
	if _, err := service.SetIncludeInHandicap(context.Background(), "a", true); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if _, err := service.SetIncludeInHandicap(context.Background(), "a", false); err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error from first toggle, got %v", err)
	}
	items, _ := service.Rounds(context.Background())
	if items[0].IncludeInHandicap {
		t.Fatalf("expected third toggle value to stand after first toggle failed")
	}
}

func TestRoundService_FailedDeleteKeepsRecreatedRound(t *testing.T) {
	t.Parallel()

	repo := roundmock.NewRepository(t)
	repo.On("List", mock.Anything).Return([]round.Round{storedRound("a", 1), storedRound("b1", 2)}, nil).Once()
	service := NewRoundService(repo, &id.Sequence{Prefix: "b"}, logging.NewNop())
	if err := service.Load(context.Background()); err != nil {
		t.Fatalf("load rounds: %v", err)
	}

	entered, release := make(chan struct{}), make(chan struct{})
	repo.On("Delete", mock.Anything, "b1").Run(blockUntil(entered, release)).Return(errStoreDown).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(item round.Round) bool { return item.ID == "b1" })).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		done <- service.Delete(context.Background(), "b1")
	}()

	waitFor(t, entered, "delete")
	if _, err := service.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("recreate round: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error from delete, got %v", err)
	}

	items, _ := service.Rounds(context.Background())
	count := 0
	for _, item := range items {
		if item.ID == "b1" {
			count++
			if item.Course != "Links" {
				t.Fatalf("expected recreated round to stand, got %+v", item)
			}
		}
	}
	if count != 1 || len(items) != 2 {
		t.Fatalf("expected exactly one b1, got %+v", items)
	}
}

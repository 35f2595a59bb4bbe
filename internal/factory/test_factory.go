package factory

import (
	"fmt"

	"github.com/rbt-academy/trainer/internal/dependencies/mocks"
	"github.com/rbt-academy/trainer/internal/services/account"
	"github.com/rbt-academy/trainer/internal/services/profanity"
	"github.com/rbt-academy/trainer/internal/storage/memory"
	"github.com/rbt-academy/trainer/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Memory is the durable store, exposed for corruption and inspection
	Memory *memory.Storage

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockJudge  *mocks.MockJudge
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(mocks.TrainingDay)
	mockRandom := mocks.NewMockRandom()
	mockJudge := mocks.NewMockJudge()

	app, err := newWithDependencies(dependencies{
		store:      store,
		clock:      mockClock,
		random:     mockRandom,
		judge:      mockJudge,
		profanity:  profanity.Default(),
		accountCfg: account.DefaultConfig(),
		logger:     testutil.NopLogger(),
	})
	if err != nil {
		panic(fmt.Sprintf("wire test app: %v", err))
	}

	return &TestApp{
		App:        app,
		Memory:     store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockJudge:  mockJudge,
	}
}

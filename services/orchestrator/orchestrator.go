// Package orchestrator owns the cross-component state of one browser session
// and sequences session, intake, inference, conversation and discovery.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/conversation"
	"healthguide/services/discovery"
	"healthguide/services/inference"
	"healthguide/services/intake"
	"healthguide/services/localstore"
	"healthguide/services/medication"
	"healthguide/services/quickaction"
	"healthguide/services/remote"
	"healthguide/services/session"
)

type Config struct {
	LLMProvider           string
	GPSTimeout            time.Duration
	QuickActionGPSTimeout time.Duration
	PrefillWait           time.Duration
	PrefillDelay          time.Duration
	AmbulancePromptDelay  time.Duration
}

type Geocoder interface {
	Geocode(ctx context.Context, q discovery.ManualQuery) (models.Coordinates, error)
}

// Deps are shared by every orchestrator the process creates.
type Deps struct {
	API      remote.API
	Geocoder Geocoder
	Backend  localstore.Backend
	Config   Config
	Logger   *zap.Logger
}

type Orchestrator struct {
	clientID string
	cfg      Config
	logger   *zap.Logger

	store        *localstore.Store
	sessions     *session.Manager
	intake       *intake.Service
	inference    *inference.Bridge
	conversation *conversation.Pipeline
	finder       *discovery.Finder
	geocoder     Geocoder
	mailbox      *discovery.Mailbox
	quick        *quickaction.Dispatcher
	medication   *medication.Service

	// ctx bounds background work; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu              sync.Mutex
	symptoms        *models.SymptomContext
	pendingPayload  *models.SymptomPayload
	temperature     *models.TemperatureState
	causes          []models.ProbableCause
	homeCare        []string
	medSuggestions  map[string]any
	appliedGen      uint64
	coords          *models.Coordinates
	providers       []models.Provider
	smart           *models.DiscoveryResult
	mapOpen         bool
	notices         []string
	ambulancePrompt *models.AmbulancePrompt
	locationError   string
}

// New builds the orchestrator for clientID and starts session creation in
// the background. A session already persisted for the client is resumed.
func New(ctx context.Context, clientID string, deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("clientID", clientID))

	store := localstore.New(deps.Backend, clientID, logger)
	bgCtx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		clientID: clientID,
		cfg:      deps.Config,
		logger:   logger,
		store:    store,
		geocoder: deps.Geocoder,
		mailbox:  discovery.NewMailbox(),
		ctx:      bgCtx,
		cancel:   cancel,
	}
	o.sessions = session.NewManager(ctx, deps.API, store, logger)
	o.intake = intake.NewService(deps.API, o.sessions, store, logger)
	o.inference = inference.NewBridge(deps.API, logger)
	o.conversation = conversation.New(deps.API, o.sessions, store, conversation.Config{
		LLMProvider:  deps.Config.LLMProvider,
		PrefillWait:  deps.Config.PrefillWait,
		PrefillDelay: deps.Config.PrefillDelay,
	}, logger)
	o.finder = discovery.NewFinder(deps.API, store, logger)
	o.quick = quickaction.NewDispatcher(deps.API, o.finder, quickaction.Config{
		GPSTimeout:           deps.Config.QuickActionGPSTimeout,
		AmbulancePromptDelay: deps.Config.AmbulancePromptDelay,
	}, o.runBackground, logger)
	o.medication = medication.NewService(deps.API, logger)

	o.sessions.OnReady(func(string) { o.conversation.SessionReady() })
	o.goBackground(func() {
		if _, err := o.sessions.EnsureSession(o.ctx); err != nil {
			o.logger.Warn("initial session creation aborted", zap.Error(err))
		}
	})
	return o
}

func (o *Orchestrator) ClientID() string { return o.clientID }

func (o *Orchestrator) SessionID() string { return o.sessions.ID() }

// EnsureSession is the re-entrant session step used by request handlers.
func (o *Orchestrator) EnsureSession(ctx context.Context) (string, error) {
	return o.sessions.EnsureSession(ctx)
}

func (o *Orchestrator) goBackground(fn func()) {
	o.wg.Go(fn)
}

// runBackground is goBackground for work that must stop when Close runs.
func (o *Orchestrator) runBackground(fn func(ctx context.Context)) {
	o.wg.Go(func() { fn(o.ctx) })
}

// Wait blocks until all background work has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels background work and waits for it.
func (o *Orchestrator) Close() {
	o.cancel()
	if r := o.wg.WaitAndRecover(); r != nil {
		o.logger.Error("background task panicked", zap.Error(r.AsError()))
	}
}

package formflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/runtime"
	"github.com/aretw0/formflow/pkg/adapters/httpapi"
	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/routing"
	"github.com/aretw0/formflow/pkg/session"
)

// StartFormQueryParam flags the form root that a fresh start was forced,
// e.g. after a locale change discarded the submission.
const StartFormQueryParam = "_start"

// ErrFormNotLoaded is returned by operations that need the form definition
// before Start has completed.
var ErrFormNotLoaded = errors.New("form not loaded")

// localeSetter is implemented by backend clients whose requests carry the UI
// language. SetLocale forwards the new language before refetching the form.
type localeSetter interface {
	SetLocale(locale string)
}

// Config carries the initialization parameters for one form session.
type Config struct {
	// BaseURL is the root of the backend API.
	BaseURL string
	// BasePath is the path prefix the hosting page is served under. The
	// engine only stores it; path handling belongs to the host router.
	BasePath string
	// FormID identifies the form to load.
	FormID string
	// Locale is the initial UI language.
	Locale string
	// UseHashRouting selects hash-based routing in the host. Stored for the
	// host's benefit; the engine emits plain paths either way.
	UseHashRouting bool
}

// Engine is the high-level entry point of the formflow library. It wires the
// resolver, progress builder, lifecycle store, session recycler and action
// router behind a small host-facing API.
type Engine struct {
	cfg Config

	api       ports.FormAPI
	identity  ports.IdentityStore
	navigator ports.Navigator
	sessions  *session.Manager
	store     *runtime.Store
	poller    *runtime.Poller

	labels       domain.Labels
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	httpClient   *http.Client
	pollInterval time.Duration

	onProcessingFailure func(message string)

	mu            sync.Mutex
	form          *domain.Form
	authenticated bool
	seq           map[string]uint64
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithAPI injects a custom backend client, bypassing the default HTTP one.
func WithAPI(api ports.FormAPI) Option {
	return func(e *Engine) {
		e.api = api
	}
}

// WithHTTPClient configures the http.Client of the default backend client.
func WithHTTPClient(hc *http.Client) Option {
	return func(e *Engine) {
		e.httpClient = hc
	}
}

// WithIdentityStore injects the persisted session identity store.
// Default: in-memory (identity lost on process restart).
func WithIdentityStore(store ports.IdentityStore) Option {
	return func(e *Engine) {
		e.identity = store
	}
}

// WithNavigator injects the host router collaborator.
func WithNavigator(nav ports.Navigator) Option {
	return func(e *Engine) {
		e.navigator = nav
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLabels overrides the fixed pseudo-step labels (host-side i18n).
func WithLabels(labels domain.Labels) Option {
	return func(e *Engine) {
		e.labels = labels
	}
}

// WithPollInterval overrides the background processing poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(e *Engine) {
		e.pollInterval = interval
	}
}

// WithProcessingFailureHandler registers the callback invoked with the error
// message when background processing reports failure. The engine routes the
// user back to the overview regardless; the callback is for host display.
func WithProcessingFailureHandler(fn func(message string)) Option {
	return func(e *Engine) {
		e.onProcessingFailure = fn
	}
}

// New initializes a formflow Engine for one form session.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.FormID == "" {
		return nil, fmt.Errorf("FormID is required")
	}

	e := &Engine{
		cfg:          cfg,
		labels:       domain.DefaultLabels(),
		logger:       logging.NewNop(),
		pollInterval: runtime.DefaultPollInterval,
		seq:          make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = logging.ForForm(e.logger, cfg.FormID)

	if e.api == nil {
		apiOpts := []httpapi.Option{
			httpapi.WithLogger(e.logger),
			httpapi.WithLocale(cfg.Locale),
		}
		if e.httpClient != nil {
			apiOpts = append(apiOpts, httpapi.WithHTTPClient(e.httpClient))
		}
		e.api = httpapi.NewClient(cfg.BaseURL, apiOpts...)
	}
	if e.identity == nil {
		e.identity = memory.NewIdentityStore()
	}
	if e.navigator == nil {
		e.navigator = ports.NavigatorFunc(func(string, url.Values) {})
	}

	e.sessions = session.NewManager(e.identity, e.api, session.WithLogger(e.logger))
	e.store = runtime.NewStore(
		runtime.WithStoreLogger(e.logger),
		runtime.WithStoreHooks(e.hooks),
	)
	e.poller = runtime.NewPoller(e.api,
		runtime.WithPollInterval(e.pollInterval),
		runtime.WithPollerLogger(e.logger),
		runtime.WithPollerHooks(e.hooks),
	)
	return e, nil
}

// Start fetches the form definition and recycles any persisted submission.
// A form fetch failure is lifecycle-fatal: it is recorded as StartingError
// for the host boundary and returned. A stale persisted identity is cleared
// silently and never blocks a fresh start.
func (e *Engine) Start(ctx context.Context) error {
	seq := e.nextSeq("form")

	form, err := e.api.FetchForm(ctx, e.cfg.FormID)
	if !e.isCurrent("form", seq) {
		// Superseded by a later Start or SetLocale; discard.
		return nil
	}
	if err != nil {
		if dispatchErr := e.store.Dispatch(ctx, domain.StartingError{Err: err}); dispatchErr != nil {
			return dispatchErr
		}
		return fmt.Errorf("failed to fetch form %s: %w", e.cfg.FormID, err)
	}
	e.setForm(form)

	sub, err := e.sessions.Resume(ctx)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}
	if !e.isCurrent("form", seq) {
		// A locale change landed while the resume was in flight; its answers
		// are bound to the old language, so loading it now would resurrect a
		// submission the user already discarded.
		return nil
	}

	if err := e.store.Dispatch(ctx, domain.SubmissionLoaded{Submission: sub}); err != nil {
		return err
	}
	e.NavigateTo(e.firstStepPath(sub), nil)
	return nil
}

// SetLocale switches the UI language: the form definition is refetched
// wholesale, and a submission in progress is discarded (its answers are
// bound to the submission language).
func (e *Engine) SetLocale(ctx context.Context, locale string) error {
	e.mu.Lock()
	e.cfg.Locale = locale
	e.mu.Unlock()

	if ls, ok := e.api.(localeSetter); ok {
		ls.SetLocale(locale)
	}

	seq := e.nextSeq("form")
	form, err := e.api.FetchForm(ctx, e.cfg.FormID)
	if !e.isCurrent("form", seq) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refetch form for locale %s: %w", locale, err)
	}
	e.setForm(form)

	if e.store.State().Submission == nil {
		return nil
	}
	if err := e.sessions.Forget(ctx); err != nil {
		return err
	}
	if err := e.store.Dispatch(ctx, domain.DestroySubmission{}); err != nil {
		return err
	}
	e.NavigateTo("/", url.Values{StartFormQueryParam: {"1"}})
	return nil
}

// StartSubmission creates a fresh submission for the form and navigates to
// the first applicable step.
func (e *Engine) StartSubmission(ctx context.Context) (*domain.Submission, error) {
	form := e.Form()
	if form == nil {
		return nil, ErrFormNotLoaded
	}

	sub, err := e.api.CreateSubmission(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	if err := e.sessions.Remember(ctx, sub.ID); err != nil {
		return nil, err
	}
	if err := e.store.Dispatch(ctx, domain.SubmissionLoaded{Submission: sub}); err != nil {
		return nil, err
	}
	e.NavigateTo(e.firstStepPath(sub), nil)
	return sub, nil
}

// ReloadSubmission replaces the working submission after a server-side logic
// check updated applicability or completion data.
func (e *Engine) ReloadSubmission(ctx context.Context, sub *domain.Submission) error {
	return e.store.Dispatch(ctx, domain.SubmissionLoaded{Submission: sub})
}

// CompleteStep is called when the step at the given form index was saved.
// It navigates to the next applicable step, or to the overview when none
// remains, and returns the chosen path.
func (e *Engine) CompleteStep(ctx context.Context, stepIndex int) (string, error) {
	form := e.Form()
	if form == nil {
		return "", ErrFormNotLoaded
	}

	sub := e.store.State().Submission
	next, ok, err := runtime.NextApplicableStep(stepIndex, sub, len(form.Steps))
	if err != nil {
		return "", err
	}

	path := domain.PathOverview
	if ok {
		path = domain.StepPath(form.Steps[next].Slug)
	}
	e.NavigateTo(path, nil)
	return path, nil
}

// PreviousStepPath returns the path of the closest applicable step before
// the given index, or the form root when none exists.
func (e *Engine) PreviousStepPath(stepIndex int) (string, error) {
	form := e.Form()
	if form == nil {
		return "", ErrFormNotLoaded
	}

	sub := e.store.State().Submission
	prev, ok, err := runtime.PreviousApplicableStep(stepIndex, sub, len(form.Steps))
	if err != nil {
		return "", err
	}
	if !ok {
		return "/", nil
	}
	return domain.StepPath(form.Steps[prev].Slug), nil
}

// Submit hands the working submission to the backend for background
// processing. The persisted identity is cleared (the submission is out of
// the user's hands), and the user is routed to payment when required and
// unpaid, otherwise to the confirmation view.
func (e *Engine) Submit(ctx context.Context) error {
	state := e.store.State()
	sub := state.Submission
	if sub == nil {
		return fmt.Errorf("%w: Submit without working submission", domain.ErrInvalidTransition)
	}

	statusURL, err := e.api.CompleteSubmission(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to complete submission: %w", err)
	}

	if err := e.sessions.Forget(ctx); err != nil {
		return err
	}
	if err := e.store.Dispatch(ctx, domain.Submitted{Submission: sub, ProcessingStatusURL: statusURL}); err != nil {
		return err
	}

	if sub.Payment.IsRequired && !sub.Payment.HasPaid {
		e.NavigateTo(domain.PathPayment, nil)
	} else {
		e.NavigateTo(domain.PathConfirmation, nil)
	}
	return nil
}

// AwaitProcessing polls the background processing status until it is done or
// the context is canceled. On reported failure the failure handler is
// invoked with the backend message and the user is routed back to the
// overview to retry. Transport errors are returned to the caller; a canceled
// or superseded poll never mutates state.
func (e *Engine) AwaitProcessing(ctx context.Context) error {
	state := e.store.State()
	if state.Phase != domain.PhaseSubmitted {
		return fmt.Errorf("%w: AwaitProcessing from %q", domain.ErrInvalidTransition, state.Phase)
	}
	statusURL := state.ProcessingStatusURL

	resp, err := e.poller.Wait(ctx, statusURL)
	if err != nil {
		return err
	}

	// A Reset/DestroySubmission while polling makes this result stale.
	current := e.store.State()
	if current.Phase != domain.PhaseSubmitted || current.ProcessingStatusURL != statusURL {
		e.logger.Debug("discarding stale processing result", "status_url", statusURL)
		return nil
	}

	if resp.Result == ports.ResultFailed {
		message := resp.ErrorMessage
		if err := e.store.Dispatch(ctx, domain.ProcessingFailed{Message: message}); err != nil {
			return err
		}
		e.NavigateTo(domain.PathOverview, nil)
		if e.onProcessingFailure != nil {
			e.onProcessingFailure(message)
		}
		return nil
	}

	return e.store.Dispatch(ctx, domain.ProcessingSucceeded{})
}

// DestroySession deletes the server-side session, forgets the identity and
// resets the lifecycle, then routes to the form root.
func (e *Engine) DestroySession(ctx context.Context) error {
	if sub := e.store.State().ActiveSubmission(); sub != nil {
		if err := e.api.DestroySession(ctx, sub.ID); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}
	if err := e.sessions.Forget(ctx); err != nil {
		return err
	}
	if err := e.store.Dispatch(ctx, domain.Reset{Initial: domain.NewState()}); err != nil {
		return err
	}
	e.NavigateTo("/", nil)
	return nil
}

// EnterFromRedirect routes an external entry action (email resume link,
// payment callback, appointment links) to its internal destination. Unknown
// actions fall back to the form root.
func (e *Engine) EnterFromRedirect(action routing.Action, params url.Values) {
	redirect := routing.RedirectParams(action, params)
	if redirect.Path == "" {
		e.NavigateTo("/", nil)
		return
	}
	e.NavigateTo("/"+redirect.Path, redirect.Query)
}

// HandlePaymentReturn inspects the query of a payment-provider callback.
// When present, the user is routed to the confirmation view with the status
// parameters passed through, and true is returned.
func (e *Engine) HandlePaymentReturn(query url.Values) bool {
	if query.Get("of_payment_status") == "" {
		return false
	}
	passthrough := url.Values{
		"status":     {query.Get("of_payment_status")},
		"userAction": {query.Get("of_payment_action")},
		"statusUrl":  {query.Get("of_submission_status")},
	}
	e.NavigateTo(domain.PathConfirmation, passthrough)
	return true
}

// ProgressNodes derives the display-ready progress node list for the view at
// currentPath. Pure with respect to engine state: calling it never mutates
// anything.
func (e *Engine) ProgressNodes(currentPath string) ([]domain.ProgressNode, error) {
	form := e.Form()
	if form == nil {
		return nil, ErrFormNotLoaded
	}

	state := e.store.State()
	e.mu.Lock()
	authenticated := e.authenticated
	labels := e.labels
	e.mu.Unlock()

	return runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:          form,
		Submission:    state.ActiveSubmission(),
		CurrentPath:   currentPath,
		Completed:     state.Completed(),
		Authenticated: authenticated,
		Labels:        labels,
	}), nil
}

// Dispatch applies a raw lifecycle transition. Most hosts use the dedicated
// methods instead; Dispatch exists for the transitions that carry no engine
// side effects (ClearProcessingError and friends).
func (e *Engine) Dispatch(ctx context.Context, t domain.Transition) error {
	return e.store.Dispatch(ctx, t)
}

// LifecycleState returns the current lifecycle snapshot.
func (e *Engine) LifecycleState() domain.State {
	return e.store.State()
}

// CurrentSubmission returns the working submission, nil when there is none.
func (e *Engine) CurrentSubmission() *domain.Submission {
	return e.store.State().Submission
}

// Form returns the loaded form definition, nil before Start completed.
func (e *Engine) Form() *domain.Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetAuthenticated records whether the user is logged in; the login
// pseudo-step is hidden once authenticated.
func (e *Engine) SetAuthenticated(authenticated bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.authenticated = authenticated
}

// NavigateTo delegates a navigation to the host router.
func (e *Engine) NavigateTo(path string, query url.Values) {
	if e.hooks.OnNavigate != nil {
		e.hooks.OnNavigate(context.Background(), &domain.NavigateEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNavigate},
			Path:      path,
		})
	}
	e.navigator.NavigateTo(path, query)
}

func (e *Engine) setForm(form *domain.Form) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.form = form
}

// firstStepPath returns the path of the first applicable step, falling back
// to the overview when the submission marks every step inapplicable.
func (e *Engine) firstStepPath(sub *domain.Submission) string {
	form := e.Form()
	next, ok, err := runtime.NextApplicableStep(-1, sub, len(form.Steps))
	if err != nil || !ok {
		return domain.PathOverview
	}
	return domain.StepPath(form.Steps[next].Slug)
}

// nextSeq issues a new generation for the logical resource key. Only the
// most recently issued request for a key may mutate state.
func (e *Engine) nextSeq(key string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq[key]++
	return e.seq[key]
}

func (e *Engine) isCurrent(key string, seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq[key] == seq
}

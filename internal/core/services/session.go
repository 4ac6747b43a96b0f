package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/reqbot-cli/internal/core/domain"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// Ensure SessionOrchestrator implements the interface.
var _ driving.SessionService = (*SessionOrchestrator)(nil)

// ReportTitle heads every exported report.
const ReportTitle = "Requirements Report"

// SessionOrchestrator mediates user-triggered operations against the
// requirement store and conversation log. It is either idle or busy; while
// busy every other operation is rejected with domain.ErrBusy and leaves
// both the store and the log untouched.
type SessionOrchestrator struct {
	store        driven.RequirementStore
	log          driven.ConversationLog
	collaborator driven.Collaborator
	renderer     driven.ReportRenderer

	precedence        domain.TypePrecedence
	sortAfterClassify bool

	mu   sync.Mutex
	busy bool
}

// SessionOption configures a SessionOrchestrator.
type SessionOption func(*SessionOrchestrator)

// WithPrecedence sets the requirement type sort order.
func WithPrecedence(p domain.TypePrecedence) SessionOption {
	return func(o *SessionOrchestrator) {
		if p != nil {
			o.precedence = p
		}
	}
}

// WithSortAfterClassify re-sorts requirements after a stand-alone classification.
func WithSortAfterClassify(enabled bool) SessionOption {
	return func(o *SessionOrchestrator) {
		o.sortAfterClassify = enabled
	}
}

// WithReportRenderer sets the renderer used by ExportReport.
func WithReportRenderer(r driven.ReportRenderer) SessionOption {
	return func(o *SessionOrchestrator) {
		o.renderer = r
	}
}

// NewSessionOrchestrator creates a session over the given store and log.
// An empty log receives the greeting turn.
func NewSessionOrchestrator(
	store driven.RequirementStore,
	log driven.ConversationLog,
	collaborator driven.Collaborator,
	opts ...SessionOption,
) *SessionOrchestrator {
	o := &SessionOrchestrator{
		store:        store,
		log:          log,
		collaborator: collaborator,
		precedence:   domain.DefaultTypePrecedence(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if log.Len() == 0 {
		log.Append(domain.Turn{Role: domain.RoleAssistant, Content: domain.Greeting, Payload: domain.PlainPayload{}})
	}
	return o
}

// begin moves the session to busy. The returned func moves it back to idle
// and must be deferred by the caller.
func (o *SessionOrchestrator) begin(op domain.Operation) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		logger.Debug("rejected %s: session busy", op)
		return nil, fmt.Errorf("%s: %w", op, domain.ErrBusy)
	}
	o.busy = true
	logger.Section(op.String())
	done := logger.Elapsed(op.String())
	return func() {
		done()
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}, nil
}

// Busy reports whether an operation is in flight.
func (o *SessionOrchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// SendMessage appends the user's turn, asks the collaborator to continue
// the conversation and replaces the requirement list with its answer.
// On failure an assistant error turn is appended and the list is unchanged.
func (o *SessionOrchestrator) SendMessage(ctx context.Context, text string) (domain.ConversationUpdate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ConversationUpdate{}, fmt.Errorf("send message: %w: empty message", domain.ErrInvalidInput)
	}
	if o.collaborator == nil {
		return domain.ConversationUpdate{}, fmt.Errorf("send message: %w", domain.ErrLLMUnavailable)
	}

	release, err := o.begin(domain.OpSendMessage)
	if err != nil {
		return domain.ConversationUpdate{}, err
	}
	defer release()

	o.log.Append(domain.Turn{Role: domain.RoleUser, Content: text, Payload: domain.PlainPayload{}})

	update, err := o.collaborator.ContinueConversation(ctx, o.log.ProjectForCollaborator())
	if err != nil {
		err = fmt.Errorf("continue conversation: %w", err)
		o.appendError(err)
		return domain.ConversationUpdate{}, err
	}

	update.UpdatedRequirements = ensureIDs(update.UpdatedRequirements, o.store.Retired)
	o.store.ReplaceAll(update.UpdatedRequirements)
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: update.FollowUpQuestion,
		Payload: domain.RequirementsPayload{Requirements: update.UpdatedRequirements},
	})
	logger.Info("conversation updated %d requirements", len(update.UpdatedRequirements))

	return update, nil
}

// Start drafts requirements from an application idea.
func (o *SessionOrchestrator) Start(ctx context.Context, idea string) ([]domain.Requirement, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, fmt.Errorf("start: %w: empty idea", domain.ErrInvalidInput)
	}
	if o.collaborator == nil {
		return nil, fmt.Errorf("start: %w", domain.ErrLLMUnavailable)
	}

	release, err := o.begin(domain.OpStart)
	if err != nil {
		return nil, err
	}
	defer release()

	o.log.Append(domain.Turn{Role: domain.RoleUser, Content: idea, Payload: domain.PlainPayload{}})

	reqs, err := o.collaborator.GenerateInitialRequirements(ctx, idea)
	if err != nil {
		err = fmt.Errorf("generate initial requirements: %w", err)
		o.appendError(err)
		return nil, err
	}

	reqs = ensureIDs(reqs, o.store.Retired)
	o.store.ReplaceAll(reqs)
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: fmt.Sprintf("I've drafted %d initial requirements from your idea.", len(reqs)),
		Payload: domain.RequirementsPayload{Requirements: reqs},
	})

	return domain.CloneRequirements(reqs), nil
}

// ApplyFeedback asks the collaborator to rewrite the requirements from
// free-form feedback and replaces the list with the valid elements of the
// first JSON array in its answer.
func (o *SessionOrchestrator) ApplyFeedback(ctx context.Context, feedback string) ([]domain.Requirement, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, fmt.Errorf("apply feedback: %w: empty feedback", domain.ErrInvalidInput)
	}
	if o.collaborator == nil {
		return nil, fmt.Errorf("apply feedback: %w", domain.ErrLLMUnavailable)
	}

	release, err := o.begin(domain.OpApplyFeedback)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := json.Marshal(o.store.Requirements())
	if err != nil {
		return nil, fmt.Errorf("encode requirements: %w", err)
	}

	o.log.Append(domain.Turn{Role: domain.RoleUser, Content: feedback, Payload: domain.PlainPayload{}})

	text, err := o.collaborator.ImproveRequirements(ctx, feedbackPrompt(string(current), feedback))
	if err != nil {
		err = fmt.Errorf("improve requirements: %w", err)
		o.appendError(err)
		return nil, err
	}

	reqs, dropped, err := ParseRequirementList(text)
	if err != nil {
		err = fmt.Errorf("apply feedback: %w", err)
		o.appendError(err)
		return nil, err
	}
	if dropped > 0 {
		logger.Debug("dropped %d invalid requirements from feedback response", dropped)
	}

	reqs = ensureIDs(reqs, o.store.Retired)
	o.store.ReplaceAll(reqs)
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: domain.MsgFeedbackApplied,
		Payload: domain.RequirementsPayload{Requirements: reqs},
	})

	return domain.CloneRequirements(reqs), nil
}

func feedbackPrompt(currentJSON, feedback string) string {
	return "Current requirements (JSON):\n" + currentJSON + "\n\nRequested changes:\n" + feedback
}

// Classify classifies the current requirements and merges the result by
// description.
func (o *SessionOrchestrator) Classify(ctx context.Context) ([]domain.ClassifiedRequirement, error) {
	release, err := o.begin(domain.OpClassify)
	if err != nil {
		return nil, err
	}
	defer release()

	reqs := o.store.Requirements()
	if len(reqs) == 0 {
		return nil, fmt.Errorf("classify: %w", domain.ErrNoRequirements)
	}
	if o.collaborator == nil {
		return nil, fmt.Errorf("classify: %w", domain.ErrLLMUnavailable)
	}

	classified, err := o.collaborator.Classify(ctx, domain.Descriptions(reqs))
	if err != nil {
		return nil, fmt.Errorf("classify requirements: %w", err)
	}

	matched := o.store.UpsertByDescription(classified)
	if orphans := len(classified) - matched; orphans > 0 {
		logger.Debug("ignored %d classifications with no matching requirement", orphans)
	}
	if o.sortAfterClassify {
		o.store.ReplaceAll(domain.SortByTypePrecedence(o.store.Requirements(), o.precedence))
	}
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: domain.MsgClassified,
		Payload: domain.ClassificationPayload{Classified: classified},
	})

	return domain.CloneClassified(classified), nil
}

// GenerateStories writes user stories for the functional subset of the
// last classification. With no functional requirements it succeeds with an
// empty list and makes no collaborator call.
func (o *SessionOrchestrator) GenerateStories(ctx context.Context) ([]domain.UserStory, error) {
	release, err := o.begin(domain.OpGenerateStories)
	if err != nil {
		return nil, err
	}
	defer release()

	classified := o.store.Classified()
	if len(classified) == 0 {
		return nil, fmt.Errorf("generate stories: %w", domain.ErrNotClassified)
	}

	stories, err := o.storiesFor(ctx, classified)
	if err != nil {
		return nil, err
	}

	o.store.SetUserStories(stories)
	content := domain.MsgStories
	if len(stories) == 0 {
		content = domain.MsgNoStories
	}
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: content,
		Payload: domain.StoriesPayload{Stories: stories},
	})

	return domain.CloneStories(stories), nil
}

func (o *SessionOrchestrator) storiesFor(ctx context.Context, classified []domain.ClassifiedRequirement) ([]domain.UserStory, error) {
	functional := domain.FunctionalDescriptions(classified)
	if len(functional) == 0 {
		logger.Debug("no functional requirements, skipping story generation")
		return []domain.UserStory{}, nil
	}
	if o.collaborator == nil {
		return nil, fmt.Errorf("generate stories: %w", domain.ErrLLMUnavailable)
	}
	stories, err := o.collaborator.GenerateStories(ctx, functional)
	if err != nil {
		return nil, fmt.Errorf("generate user stories: %w", err)
	}
	return stories, nil
}

// IdentifyStakeholders lists stakeholders for the current requirements.
func (o *SessionOrchestrator) IdentifyStakeholders(ctx context.Context) ([]domain.Stakeholder, error) {
	release, err := o.begin(domain.OpIdentifyStakeholders)
	if err != nil {
		return nil, err
	}
	defer release()

	reqs := o.store.Requirements()
	if len(reqs) == 0 {
		return nil, fmt.Errorf("identify stakeholders: %w", domain.ErrNoRequirements)
	}
	if o.collaborator == nil {
		return nil, fmt.Errorf("identify stakeholders: %w", domain.ErrLLMUnavailable)
	}

	stakeholders, err := o.collaborator.IdentifyStakeholders(ctx, domain.Descriptions(reqs))
	if err != nil {
		return nil, fmt.Errorf("identify stakeholders: %w", err)
	}

	o.store.SetStakeholders(stakeholders)
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: domain.MsgStakeholders,
		Payload: domain.StakeholdersPayload{Stakeholders: stakeholders},
	})

	return domain.CloneStakeholders(stakeholders), nil
}

// GenerateReport classifies, writes stories from that classification and
// identifies stakeholders. Results are applied only when all three steps
// succeed; the requirements are then sorted by type precedence.
func (o *SessionOrchestrator) GenerateReport(ctx context.Context) (domain.Report, error) {
	release, err := o.begin(domain.OpGenerateReport)
	if err != nil {
		return domain.Report{}, err
	}
	defer release()

	before := o.store.Snapshot()
	if !before.HasRequirements() {
		return domain.Report{}, fmt.Errorf("generate report: %w", domain.ErrNoRequirements)
	}
	if o.collaborator == nil {
		return domain.Report{}, fmt.Errorf("generate report: %w", domain.ErrLLMUnavailable)
	}

	descriptions := domain.Descriptions(before.Requirements)

	classified, err := o.collaborator.Classify(ctx, descriptions)
	if err != nil {
		return domain.Report{}, fmt.Errorf("generate report: classify: %w", err)
	}
	stories, err := o.storiesFor(ctx, classified)
	if err != nil {
		return domain.Report{}, fmt.Errorf("generate report: %w", err)
	}
	stakeholders, err := o.collaborator.IdentifyStakeholders(ctx, descriptions)
	if err != nil {
		return domain.Report{}, fmt.Errorf("generate report: identify stakeholders: %w", err)
	}

	o.applyReport(before, classified, stories, stakeholders)

	report := o.currentReport()
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: domain.MsgReport,
		Payload: domain.ReportPayload{
			Requirements: report.Requirements,
			Classified:   classified,
			Stories:      stories,
			Stakeholders: stakeholders,
		},
	})

	return report, nil
}

// applyReport merges all three results or, if any step panics, restores
// the state captured before the report began.
func (o *SessionOrchestrator) applyReport(
	before domain.SessionSnapshot,
	classified []domain.ClassifiedRequirement,
	stories []domain.UserStory,
	stakeholders []domain.Stakeholder,
) {
	committed := false
	defer func() {
		if !committed {
			o.store.Restore(before)
		}
	}()

	o.store.UpsertByDescription(classified)
	o.store.SetUserStories(stories)
	o.store.SetStakeholders(stakeholders)
	o.store.ReplaceAll(domain.SortByTypePrecedence(o.store.Requirements(), o.precedence))
	committed = true
}

// Speak narrates the current requirements.
func (o *SessionOrchestrator) Speak(ctx context.Context) (string, error) {
	release, err := o.begin(domain.OpSpeak)
	if err != nil {
		return "", err
	}
	defer release()

	reqs := o.store.Requirements()
	if len(reqs) == 0 {
		return "", fmt.Errorf("speak: %w", domain.ErrNoRequirements)
	}
	if o.collaborator == nil {
		return "", fmt.Errorf("speak: %w", domain.ErrLLMUnavailable)
	}

	uri, err := o.collaborator.SpeakRequirements(ctx, reqs)
	if err != nil {
		return "", fmt.Errorf("speak requirements: %w", err)
	}

	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: domain.MsgSpeaking,
		Payload: domain.AudioPayload{DataURI: uri},
	})

	return uri, nil
}

// EditRequirement replaces an existing requirement.
func (o *SessionOrchestrator) EditRequirement(r domain.Requirement) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("edit requirement: %w", err)
	}

	release, err := o.begin(domain.OpEditRequirement)
	if err != nil {
		return err
	}
	defer release()

	if !o.store.UpdateByID(r) {
		return fmt.Errorf("edit requirement %s: %w", r.ID, domain.ErrNotFound)
	}
	o.store.ClearSelection()
	return nil
}

// DeleteRequirement removes a requirement.
func (o *SessionOrchestrator) DeleteRequirement(id string) error {
	release, err := o.begin(domain.OpDeleteRequirement)
	if err != nil {
		return err
	}
	defer release()

	if !o.store.DeleteByID(id) {
		return fmt.Errorf("delete requirement %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SelectRequirement marks a requirement as the one being edited.
func (o *SessionOrchestrator) SelectRequirement(id string) error {
	if !o.store.Select(id) {
		return fmt.Errorf("select requirement %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExportReport renders the current report to w.
func (o *SessionOrchestrator) ExportReport(w io.Writer, format domain.ReportFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("export report: %w: unknown format %q", domain.ErrInvalidInput, format)
	}
	if o.renderer == nil {
		return errors.New("export report: no renderer configured")
	}
	report := o.currentReport()
	if len(report.Requirements) == 0 {
		return fmt.Errorf("export report: %w", domain.ErrNoRequirements)
	}
	if err := o.renderer.Render(w, report, format); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// FilterRequirements returns requirements whose description contains query.
func (o *SessionOrchestrator) FilterRequirements(query string) []domain.Requirement {
	return domain.FilterByDescription(o.store.Requirements(), query)
}

// Snapshot returns the current requirement state.
func (o *SessionOrchestrator) Snapshot() domain.SessionSnapshot {
	return o.store.Snapshot()
}

// Turns returns the conversation so far.
func (o *SessionOrchestrator) Turns() []domain.Turn {
	return o.log.Turns()
}

func (o *SessionOrchestrator) currentReport() domain.Report {
	snap := o.store.Snapshot()
	return domain.Report{
		Title:        ReportTitle,
		Requirements: snap.Requirements,
		Stories:      snap.Stories,
		Stakeholders: snap.Stakeholders,
	}
}

func (o *SessionOrchestrator) appendError(err error) {
	logger.Error("%v", err)
	msg := domain.UserMessage(err)
	o.log.Append(domain.Turn{
		Role:    domain.RoleAssistant,
		Content: msg,
		Payload: domain.ErrorPayload{Message: err.Error()},
	})
}

// ensureIDs fills missing IDs and replaces repeated or retired ones so
// that no two requirements share an ID and deleted IDs stay unused.
func ensureIDs(reqs []domain.Requirement, retired func(string) bool) []domain.Requirement {
	seen := make(map[string]bool, len(reqs))
	out := domain.CloneRequirements(reqs)
	for i := range out {
		if out[i].ID == "" || seen[out[i].ID] || retired(out[i].ID) {
			out[i].ID = uuid.NewString()
		}
		seen[out[i].ID] = true
	}
	return out
}

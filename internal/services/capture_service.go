package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/repository"
	"github.com/carslab/funnel-api/pkg/contact"
	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/leadsapi"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
	"github.com/carslab/funnel-api/pkg/trigger"
)

// User-facing copy shown by the capture form. The audience is Brazilian, so
// the messages stay in Portuguese.
const (
	msgFullNameInvalid = "Por favor, informe seu nome completo (nome e sobrenome)"
	msgEmailInvalid    = "Por favor, informe um e-mail válido"
	msgPhoneInvalid    = "Por favor, informe um telefone válido com DDD"
	msgPickChannel     = "Por favor, selecione pelo menos uma forma de recebimento (e-mail ou WhatsApp)"
	msgDuplicateLead   = "Você já está cadastrado! Verifique seu e-mail ou WhatsApp."
	msgSubmitFailed    = "Não foi possível enviar seus dados. Por favor, tente novamente."
	msgAlreadySending  = "Seu cadastro já está sendo enviado, aguarde um instante."
)

// CaptureService drives the lead-capture dialog: open with prefill, draft
// persistence while the visitor types, and the validated submit that creates
// the lead upstream.
type CaptureService struct {
	leads        *leadsapi.Client
	contactStore *ContactStoreService
	sessions     *cache.SessionCache
	submissions  repository.SubmissionStore
	config       *config.Config
	httpClient   httpclient.Client

	// inFlight holds visitor ids with a submit currently running. The
	// disabled button in the page is advisory only; this is the guard that
	// actually prevents a double-click from creating two leads.
	inFlight sync.Map
}

// NewCaptureService creates a new capture service instance
func NewCaptureService(
	leads *leadsapi.Client,
	contactStore *ContactStoreService,
	sessions *cache.SessionCache,
	submissions repository.SubmissionStore,
	cfg *config.Config,
	httpClient httpclient.Client,
) *CaptureService {
	return &CaptureService{
		leads:        leads,
		contactStore: contactStore,
		sessions:     sessions,
		submissions:  submissions,
		config:       cfg,
		httpClient:   httpClient,
	}
}

// Open transitions the dialog to open and returns persisted contact values
// for prefill.
func (s *CaptureService) Open(ctx context.Context, visitorID string) *models.DialogStateResponse {
	session := s.sessions.Get(visitorID, cache.DialogCapture)
	if session.State != models.DialogStateSubmitting {
		session.State = models.DialogStateOpen
		s.sessions.Put(visitorID, cache.DialogCapture, session)
	}

	metrics.DialogOpens.WithLabelValues("capture").Inc()

	return &models.DialogStateResponse{
		State:   session.State,
		Prefill: s.contactStore.GetPrefill(ctx, visitorID),
	}
}

// Close transitions the dialog back to closed. A submit in flight keeps its
// state; the visitor will get the outcome of that submit.
func (s *CaptureService) Close(_ context.Context, visitorID string) *models.DialogStateResponse {
	session := s.sessions.Get(visitorID, cache.DialogCapture)
	if session.State != models.DialogStateSubmitting {
		session.State = models.DialogStateClosed
		s.sessions.Put(visitorID, cache.DialogCapture, session)
	}

	return &models.DialogStateResponse{State: session.State}
}

// SaveDraft persists contact values as the visitor types, mirroring the
// form's save-on-input behavior. Invalid or partial values are ignored.
func (s *CaptureService) SaveDraft(ctx context.Context, visitorID, email, phone string) {
	if contact.ValidateEmail(email) {
		s.contactStore.SaveEmail(ctx, visitorID, email)
	}
	if phone != "" {
		s.contactStore.SavePhone(ctx, visitorID, phone)
	}
}

// Submit validates the form, creates the lead upstream, and resolves the
// post-submit redirect. Validation checks run in a fixed order and ALL
// failures are collected so the visitor fixes everything in one pass.
func (s *CaptureService) Submit(ctx context.Context, visitorID string, req *models.CaptureLeadRequest) *models.CaptureLeadResponse {
	if _, loaded := s.inFlight.LoadOrStore(visitorID, struct{}{}); loaded {
		return &models.CaptureLeadResponse{
			Success: false,
			State:   models.DialogStateSubmitting,
			Error:   msgAlreadySending,
		}
	}
	defer s.inFlight.Delete(visitorID)

	resp := s.validate(req)
	if resp != nil {
		metrics.LeadSubmissions.WithLabelValues("validation_failed").Inc()
		return resp
	}

	session := s.sessions.Get(visitorID, cache.DialogCapture)
	session.State = models.DialogStateSubmitting
	s.sessions.Put(visitorID, cache.DialogCapture, session)

	name := contact.StandardizeName(req.FullName)
	email := ""
	phone := ""
	if req.ReceiveEmail {
		email = strings.TrimSpace(req.Email)
	}
	if req.ReceiveWhatsapp {
		phone = contact.DigitsOnly(req.Phone)
	}

	// Persist contact values before the upstream call so a late failure
	// still leaves the visitor recognizable next visit.
	if email != "" {
		s.contactStore.SaveEmail(ctx, visitorID, email)
	}
	if phone != "" {
		s.contactStore.SavePhone(ctx, visitorID, phone)
	}

	lead := s.buildLead(name, email, phone, req)

	_, err := s.leads.Create(ctx, lead)
	if err != nil {
		return s.submitFailed(ctx, visitorID, session, lead, err)
	}

	metrics.LeadSubmissions.WithLabelValues("created").Inc()
	logger.Info("Lead created",
		zap.String("visitor_id", visitorID),
		zap.String("contact_type", lead.ContactType))

	s.journal(ctx, visitorID, name, email, phone, lead.ContactType, models.SubmissionStatusCreated)
	trigger.CallAsync(s.config.EventTriggers.LeadCreatedTriggerURL, visitorID, s.httpClient)

	session.State = models.DialogStateClosed
	s.sessions.Put(visitorID, cache.DialogCapture, session)

	return &models.CaptureLeadResponse{
		Success:  true,
		State:    models.DialogStateClosed,
		Redirect: s.resolveRedirect(req),
	}
}

// validate applies the form rules in fixed order, collecting every failure.
// Returns nil when the request is valid.
func (s *CaptureService) validate(req *models.CaptureLeadRequest) *models.CaptureLeadResponse {
	var fieldErrors []models.FieldError
	alert := ""

	if contact.FullNameTokens(req.FullName) < 2 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "fullName",
			Message: msgFullNameInvalid,
		})
	}

	if !req.ReceiveEmail && !req.ReceiveWhatsapp {
		alert = msgPickChannel
	}

	if req.ReceiveEmail && !contact.ValidateEmail(req.Email) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "email",
			Message: msgEmailInvalid,
		})
	}

	if req.ReceiveWhatsapp && !contact.ValidatePhone(req.Phone) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "phone",
			Message: msgPhoneInvalid,
		})
	}

	if len(fieldErrors) == 0 && alert == "" {
		return nil
	}

	return &models.CaptureLeadResponse{
		Success:     false,
		State:       models.DialogStateOpen,
		FieldErrors: fieldErrors,
		Alert:       alert,
	}
}

func (s *CaptureService) buildLead(name, email, phone string, req *models.CaptureLeadRequest) *leadsapi.Lead {
	contactType := leadsapi.ContactTypeEmail
	switch {
	case req.ReceiveEmail && req.ReceiveWhatsapp:
		contactType = leadsapi.ContactTypeBoth
	case req.ReceiveWhatsapp:
		contactType = leadsapi.ContactTypePhone
	}

	lead := &leadsapi.Lead{
		Name:             name,
		ContactType:      contactType,
		UserType:         leadsapi.UserTypeLead,
		ConsentMarketing: true,
		ConversionStatus: leadsapi.ConversionStatusNotConverted,
		LandingSource:    s.leads.LandingSource(),
	}
	if email != "" {
		lead.Email = &email
	}
	if phone != "" {
		lead.Phone = &phone
	}
	if productID := s.leads.ProductID(); productID != "" {
		lead.ProductID = &productID
	}
	return lead
}

func (s *CaptureService) submitFailed(ctx context.Context, visitorID string, session *cache.DialogSession, lead *leadsapi.Lead, err error) *models.CaptureLeadResponse {
	session.State = models.DialogStateOpen
	s.sessions.Put(visitorID, cache.DialogCapture, session)

	email := ""
	phone := ""
	if lead.Email != nil {
		email = *lead.Email
	}
	if lead.Phone != nil {
		phone = *lead.Phone
	}

	if errors.Is(err, leadsapi.ErrDuplicateLead) {
		metrics.LeadSubmissions.WithLabelValues("duplicate").Inc()
		logger.Info("Duplicate lead submission", zap.String("visitor_id", visitorID))
		s.journal(ctx, visitorID, lead.Name, email, phone, lead.ContactType, models.SubmissionStatusDuplicate)

		return &models.CaptureLeadResponse{
			Success: false,
			State:   models.DialogStateOpen,
			Error:   msgDuplicateLead,
		}
	}

	metrics.LeadSubmissions.WithLabelValues("failed").Inc()
	logger.Error("Lead creation failed",
		zap.String("visitor_id", visitorID),
		zap.Error(err))
	s.journal(ctx, visitorID, lead.Name, email, phone, lead.ContactType, models.SubmissionStatusFailed)

	return &models.CaptureLeadResponse{
		Success: false,
		State:   models.DialogStateOpen,
		Error:   msgSubmitFailed,
	}
}

// resolveRedirect builds the post-submit redirect from the request, falling
// back to the configured checkout link. "_self" replaces the current page;
// anything else opens a new tab with opener and referrer isolation.
func (s *CaptureService) resolveRedirect(req *models.CaptureLeadRequest) *models.Redirect {
	link := req.RedirectLink
	target := req.RedirectTarget
	if link == "" {
		link = s.config.Funnel.PostSubmitLink
		if target == "" {
			target = s.config.Funnel.PostSubmitTarget
		}
	}
	if link == "" {
		return nil
	}
	if target == "" {
		target = "_blank"
	}

	redirect := &models.Redirect{Link: link, Target: target}
	if target != "_self" {
		redirect.WindowFeatures = "noopener,noreferrer"
	}
	return redirect
}

func (s *CaptureService) journal(ctx context.Context, visitorID, name, email, phone, contactType, status string) {
	if s.submissions == nil {
		return
	}

	sub := &models.Submission{
		VisitorID:   visitorID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		ContactType: contactType,
		UserType:    leadsapi.UserTypeLead,
		Status:      status,
	}
	if err := s.submissions.Record(ctx, sub); err != nil {
		logger.Warn("Failed to journal submission",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}

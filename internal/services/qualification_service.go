package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/repository"
	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/leadsapi"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
	"github.com/carslab/funnel-api/pkg/trigger"
)

const (
	msgNoContact = "Não foi possível encontrar seus dados de contato. " +
		"Por favor, volte e preencha o formulário novamente."
	msgQualifyFailed = "Não foi possível salvar sua resposta. Por favor, tente novamente."
)

// QualificationService drives the post-capture question dialog. The dialog
// is deliberately sticky: only an explicit opt-out or a successful answer
// closes it, never a backdrop click or Escape.
type QualificationService struct {
	leads        *leadsapi.Client
	contactStore *ContactStoreService
	sessions     *cache.SessionCache
	submissions  repository.SubmissionStore
	config       *config.Config
	httpClient   httpclient.Client
}

// NewQualificationService creates a new qualification service instance
func NewQualificationService(
	leads *leadsapi.Client,
	contactStore *ContactStoreService,
	sessions *cache.SessionCache,
	submissions repository.SubmissionStore,
	cfg *config.Config,
	httpClient httpclient.Client,
) *QualificationService {
	return &QualificationService{
		leads:        leads,
		contactStore: contactStore,
		sessions:     sessions,
		submissions:  submissions,
		config:       cfg,
		httpClient:   httpClient,
	}
}

// Open transitions the dialog to open, unless the visitor already opted out
func (s *QualificationService) Open(_ context.Context, visitorID string) *models.DialogStateResponse {
	session := s.sessions.Get(visitorID, cache.DialogQualification)
	if session.OptedOut {
		return &models.DialogStateResponse{State: models.DialogStateClosed}
	}

	if session.State != models.DialogStateSubmitting {
		session.State = models.DialogStateOpen
		s.sessions.Put(visitorID, cache.DialogQualification, session)
	}

	metrics.DialogOpens.WithLabelValues("qualification").Inc()

	return &models.DialogStateResponse{State: session.State}
}

// OptOut records the explicit "prefer not to answer" choice and closes the
// dialog for good.
func (s *QualificationService) OptOut(_ context.Context, visitorID string) *models.DialogStateResponse {
	session := s.sessions.Get(visitorID, cache.DialogQualification)
	session.State = models.DialogStateClosed
	session.OptedOut = true
	s.sessions.Put(visitorID, cache.DialogQualification, session)

	metrics.QualificationSubmissions.WithLabelValues("opted_out").Inc()

	return &models.DialogStateResponse{State: models.DialogStateClosed}
}

// Submit sends the chosen classification upstream. It requires a previously
// persisted contact; without one the submission is blocked with an alert
// telling the visitor to restart the funnel. Failure keeps the dialog open
// so the visitor may retry.
func (s *QualificationService) Submit(ctx context.Context, visitorID string, req *models.QualificationRequest) *models.QualificationResponse {
	contactValue, contactType := s.contactStore.GetContact(ctx, visitorID)
	if contactValue == "" {
		metrics.QualificationSubmissions.WithLabelValues("no_contact").Inc()
		logger.Warn("Qualification without persisted contact",
			zap.String("visitor_id", visitorID))
		return &models.QualificationResponse{
			Success: false,
			State:   models.DialogStateOpen,
			Alert:   msgNoContact,
		}
	}

	session := s.sessions.Get(visitorID, cache.DialogQualification)
	session.State = models.DialogStateSubmitting
	s.sessions.Put(visitorID, cache.DialogQualification, session)

	upd := leadsapi.UserTypeUpdate{UserType: req.UserType}
	if contactType == "email" {
		upd.Email = contactValue
	} else {
		upd.Phone = contactValue
	}

	_, err := s.leads.UpdateUserType(ctx, upd)
	if err != nil {
		metrics.QualificationSubmissions.WithLabelValues("failed").Inc()
		logger.Error("Failed to update lead user type",
			zap.String("visitor_id", visitorID),
			zap.String("user_type", req.UserType),
			zap.Error(err))

		session.State = models.DialogStateOpen
		s.sessions.Put(visitorID, cache.DialogQualification, session)

		return &models.QualificationResponse{
			Success: false,
			State:   models.DialogStateOpen,
			Error:   msgQualifyFailed,
		}
	}

	metrics.QualificationSubmissions.WithLabelValues("success").Inc()

	record := &models.ContactRecord{
		Contact:     contactValue,
		ContactType: contactType,
		UserType:    req.UserType,
	}
	if contactType == "email" {
		record.Email = contactValue
	} else {
		record.Phone = contactValue
	}
	s.contactStore.SaveUserData(ctx, visitorID, record)

	if s.submissions != nil {
		if jErr := s.submissions.MarkQualified(ctx, visitorID, req.UserType); jErr != nil {
			logger.Warn("Failed to mark submission qualified",
				zap.String("visitor_id", visitorID),
				zap.Error(jErr))
		}
	}

	trigger.CallAsync(s.config.EventTriggers.LeadQualifiedTriggerURL, visitorID, s.httpClient)

	session.State = models.DialogStateClosed
	s.sessions.Put(visitorID, cache.DialogQualification, session)

	return &models.QualificationResponse{
		Success: true,
		State:   models.DialogStateClosed,
	}
}

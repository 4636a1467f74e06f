package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/extract"
	"restaurant-webhooks/internal/ivr"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/notify"
	"restaurant-webhooks/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go/twiml"
	"gorm.io/gorm"
)

const (
	transcriptionCompleted = "completed"
	referenceAttempts      = 5
)

// Reply is the TwiML document answering a Twilio callback. Status and
// transcription callbacks carry no document.
type Reply struct {
	Document string
}

type TelephonyService interface {
	Handle(ctx context.Context, ev event.TelephonyEvent, payload string) (Reply, error)
}

type telephonyServiceImpl struct {
	ledger       EventLedger
	tenantRepo   repository.TenantRepository
	menuRepo     repository.MenuRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	detector     lang.LanguageDetector
	classifier   extract.IntentClassifier
	extractor    *extract.Extractor
	dispatcher   notify.Dispatcher
	baseURL      string
	newReference func() string
}

func NewTelephonyService(
	ledger EventLedger,
	tenantRepo repository.TenantRepository,
	menuRepo repository.MenuRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	detector lang.LanguageDetector,
	classifier extract.IntentClassifier,
	dispatcher notify.Dispatcher,
	baseURL string,
) TelephonyService {
	return &telephonyServiceImpl{
		ledger:       ledger,
		tenantRepo:   tenantRepo,
		menuRepo:     menuRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		detector:     detector,
		classifier:   classifier,
		extractor:    extract.NewExtractor(),
		dispatcher:   dispatcher,
		baseURL:      baseURL,
		newReference: model.NewReference,
	}
}

// CustomerLanguages looks up the stored language of a caller for the detector.
func CustomerLanguages(customers repository.CustomerRepository) lang.PreferenceLookup {
	return lang.PreferenceFunc(func(ctx context.Context, tenantID, phone string) (string, error) {
		customer, err := customers.FindByPhone(ctx, nil, tenantID, phone)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return customer.PreferredLanguage, nil
	})
}

// TwilioRecord builds the audit record of a verified Twilio callback.
func TwilioRecord(ev event.TelephonyEvent, payload string) *model.WebhookEvent {
	return &model.WebhookEvent{
		Provider:   model.ProviderTwilio,
		EventID:    ev.EventID(),
		EventType:  string(ev.Kind()),
		Livemode:   true,
		ReceivedAt: time.Now().UTC(),
		RawPayload: payload,
	}
}

func (s *telephonyServiceImpl) Handle(ctx context.Context, ev event.TelephonyEvent, payload string) (Reply, error) {
	rec := TwilioRecord(ev, payload)

	switch e := ev.(type) {
	case event.SMSReceived:
		return s.message(ctx, rec, e.Message, model.SourceSMS)
	case event.WhatsAppReceived:
		return s.message(ctx, rec, e.Message, model.SourceWhatsApp)
	case event.VoiceCallReceived:
		return s.voice(ctx, rec, e.Call, ivr.TurnIncoming, ""), nil
	case event.VoiceMenuSelection:
		return s.voice(ctx, rec, e.Call, ivr.TurnMenuSelection, e.Digits), nil
	case event.VoiceOrderStatus:
		return s.voice(ctx, rec, e.Call, ivr.TurnOrderStatus, e.Digits), nil
	case event.VoiceRecordingCompleted:
		return s.voice(ctx, rec, e.Call, ivr.TurnRecorded, ""), nil
	case event.VoiceTranscriptionReady:
		return Reply{}, s.transcription(ctx, rec, e)
	case event.VoiceCallStatus:
		log.Info().Str("call_sid", e.Call.CallSID).Str("status", e.Call.CallStatus).Str("duration", e.Duration).Msg("call status")
		_, err := s.ledger.Record(ctx, rec)
		return Reply{}, err
	default:
		return Reply{}, fmt.Errorf("%w: %T", ErrUnhandledVariant, ev)
	}
}

// message answers an inbound SMS or WhatsApp text. Orders are confirmed
// through the messaging API after commit; inquiries get an inline reply.
func (s *telephonyServiceImpl) message(ctx context.Context, rec *model.WebhookEvent, msg event.InboundMessage, source string) (Reply, error) {
	logger := log.With().Str("event_id", rec.EventID).Str("type", rec.EventType).Logger()
	from := lang.NormalizePhone(msg.From)

	tenant, err := s.tenantFor(ctx, msg.To)
	if err != nil {
		return Reply{}, err
	}
	tenantID := ""
	if tenant != nil {
		tenantID = tenant.ID
		logger = logger.With().Str("tenant_id", tenantID).Logger()
	} else {
		logger.Warn().Str("to", msg.To).Msg("no tenant owns the dialed number")
	}

	l := s.textLanguage(ctx, msg.Body, lang.Caller{Phone: from, TenantID: tenantID})
	intent := s.classifier.Classify(msg.Body)

	if intent.IsOrder() && tenant != nil {
		order, outcome, err := s.createOrder(ctx, rec, tenant, msg.Body, from, source, l, logger)
		if err != nil {
			return Reply{}, err
		}
		if outcome == OutcomeProcessed {
			logger.Info().Str("order_id", order.ID).Str("reference", order.Reference).Msg("order received by message")
		}
		return messageReply("")
	}

	outcome, err := s.ledger.Record(ctx, rec)
	if err != nil {
		return Reply{}, err
	}
	if outcome == OutcomeDuplicate {
		return messageReply("")
	}
	return messageReply(notify.InquiryReply(tenant, intent, l))
}

func (s *telephonyServiceImpl) transcription(ctx context.Context, rec *model.WebhookEvent, ev event.VoiceTranscriptionReady) error {
	logger := log.With().Str("event_id", rec.EventID).Str("call_sid", ev.Call.CallSID).Logger()

	text := strings.TrimSpace(ev.TranscriptionText)
	if ev.TranscriptionStatus != transcriptionCompleted || text == "" {
		logger.Warn().Str("status", ev.TranscriptionStatus).Msg("transcription unusable, recorded only")
		_, err := s.ledger.Record(ctx, rec)
		return err
	}

	tenant, err := s.tenantFor(ctx, ev.Call.To)
	if err != nil {
		return err
	}
	if tenant == nil {
		logger.Warn().Str("to", ev.Call.To).Msg("no tenant owns the dialed number, transcription recorded only")
		_, err := s.ledger.Record(ctx, rec)
		return err
	}

	from := lang.NormalizePhone(ev.Call.From)
	l := s.textLanguage(ctx, text, lang.Caller{Phone: from, TenantID: tenant.ID})
	order, outcome, err := s.createOrder(ctx, rec, tenant, text, from, model.SourceVoice, l, logger)
	if err != nil {
		return err
	}
	if outcome == OutcomeProcessed {
		logger.Info().Str("tenant_id", tenant.ID).Str("order_id", order.ID).Str("reference", order.Reference).Msg("order received by phone")
	}
	return nil
}

func (s *telephonyServiceImpl) createOrder(
	ctx context.Context,
	rec *model.WebhookEvent,
	tenant *model.Tenant,
	text, phone, source string,
	l lang.Language,
	logger zerolog.Logger,
) (*model.Order, Outcome, error) {
	menu, err := s.menuRepo.ListAvailable(ctx, tenant.ID)
	if err != nil {
		return nil, "", fmt.Errorf("list menu: %w", err)
	}

	draft := s.extractor.Extract(text, menu)
	if len(draft.Items) == 0 {
		logger.Warn().Msg("no menu item matched, order left for staff review")
	}

	order := &model.Order{
		TenantID:            tenant.ID,
		Reference:           s.newReference(),
		CustomerPhone:       phone,
		FulfillmentType:     draft.FulfillmentType,
		Source:              source,
		Status:              model.OrderStatusPendingConfirmation,
		PaymentStatus:       model.PaymentStatusUnpaid,
		SpecialInstructions: draft.SpecialInstructions,
		Language:            string(l),
		Currency:            tenant.Currency,
	}
	for _, item := range draft.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}
	order.TotalAmount = order.Total()

	outcome, err := s.ledger.Apply(ctx, rec, func(ctx context.Context, tx *gorm.DB, effects *Effects) error {
		customer, err := s.customerRepo.FindByPhone(ctx, tx, tenant.ID, phone)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find customer: %w", err)
		}
		if customer != nil {
			order.CustomerID = &customer.ID
			order.CustomerEmail = customer.Email
		}

		if err := s.insertOrder(ctx, tx, order, logger); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		effects.Defer(func(ctx context.Context) {
			metrics.OrdersCreatedTotal.WithLabelValues(source).Inc()
			s.dispatcher.Confirm(ctx, order, l)
		})
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return order, outcome, nil
}

// voice never fails: any error while building the response yields the
// apology document.
func (s *telephonyServiceImpl) voice(ctx context.Context, rec *model.WebhookEvent, call event.CallContext, turn ivr.Turn, digits string) Reply {
	logger := log.With().Str("call_sid", call.CallSID).Str("type", rec.EventType).Logger()

	tenant, err := s.tenantFor(ctx, call.To)
	if err != nil {
		logger.Error().Err(err).Msg("resolve tenant for call")
	}

	in := ivr.Input{
		Turn:    turn,
		Digits:  digits,
		BaseURL: s.baseURL,
		Call: ivr.Call{
			SID:    call.CallSID,
			Caller: call.From,
			Dialed: call.To,
		},
	}
	caller := lang.Caller{Phone: call.From}
	if tenant != nil {
		caller.TenantID = tenant.ID
		in.Restaurant = &ivr.Restaurant{
			Name:           tenant.Name,
			OpeningHours:   tenant.OpeningHours,
			Address:        tenant.Address,
			TransferNumber: tenant.TransferNumber,
		}
	}
	in.Call.Language = s.detector.DetectCaller(ctx, caller)

	if turn == ivr.TurnOrderStatus && tenant != nil {
		in.Order = s.lookupOrder(ctx, tenant.ID, digits, logger)
	}

	state, doc, err := render(in)
	if err != nil {
		logger.Error().Err(err).Msg("build voice response, serving fallback")
		state, doc = ivr.StateEnded, ivr.Fallback(in.Call.Language)
	}

	// the caller is answered even when the audit record cannot be written
	if _, err := s.ledger.Record(ctx, rec); err != nil {
		logger.Error().Err(err).Msg("record voice turn")
	}

	metrics.IVRTurnsTotal.WithLabelValues(string(state)).Inc()
	logger.Info().Str("state", string(state)).Str("language", string(in.Call.Language)).Msg("voice turn served")
	return Reply{Document: doc}
}

func (s *telephonyServiceImpl) lookupOrder(ctx context.Context, tenantID, digits string, logger zerolog.Logger) *ivr.OrderLookup {
	reference := strings.Trim(strings.TrimSpace(digits), "#*")
	if reference == "" {
		return nil
	}

	order, err := s.orderRepo.FindByReference(ctx, tenantID, reference)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error().Err(err).Msg("look up order by reference")
		}
		return nil
	}
	return &ivr.OrderLookup{Reference: order.Reference, Status: order.Status}
}

// tenantFor returns nil without error when no tenant owns the number.
func (s *telephonyServiceImpl) tenantFor(ctx context.Context, dialed string) (*model.Tenant, error) {
	tenant, err := s.tenantRepo.FindByPhoneNumber(ctx, lang.NormalizePhone(dialed))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by number: %w", err)
	}
	return tenant, nil
}

func (s *telephonyServiceImpl) textLanguage(ctx context.Context, text string, caller lang.Caller) lang.Language {
	if l, ok := s.detector.DetectText(text); ok {
		return l
	}
	return s.detector.DetectCaller(ctx, caller)
}

func render(in ivr.Input) (state ivr.State, doc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("voice step panicked: %v", r)
		}
	}()

	result := ivr.Step(in)
	doc, err = result.Render()
	return result.State, doc, err
}

func messageReply(body string) (Reply, error) {
	var verbs []twiml.Element
	if body != "" {
		verbs = append(verbs, &twiml.MessagingMessage{Body: body})
	}
	doc, err := twiml.Messages(verbs)
	if err != nil {
		return Reply{}, fmt.Errorf("render message response: %w", err)
	}
	return Reply{Document: doc}, nil
}

// insertOrder retries with a fresh reference when the tenant already uses it.
// Each attempt runs in a savepoint so a collision leaves tx usable.
func (s *telephonyServiceImpl) insertOrder(ctx context.Context, tx *gorm.DB, order *model.Order, logger zerolog.Logger) error {
	for attempt := 1; ; attempt++ {
		err := tx.Transaction(func(sp *gorm.DB) error {
			return s.orderRepo.Create(ctx, sp, order)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == referenceAttempts {
			return err
		}
		logger.Info().Str("reference", order.Reference).Int("attempt", attempt).Msg("order reference taken, retrying")
		order.Reference = s.newReference()
	}
}

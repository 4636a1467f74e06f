package handler

import (
	"net/http"
	"strconv"
	"time"

	"restaurant-webhooks/internal/dto"
	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/ivr"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const mimeTextXML = "text/xml"

type TwilioHandler struct {
	telephonyService service.TelephonyService
	defaultLanguage  lang.Language
}

func NewTwilioHandler(telephonyService service.TelephonyService, defaultLanguage lang.Language) *TwilioHandler {
	return &TwilioHandler{
		telephonyService: telephonyService,
		defaultLanguage:  defaultLanguage,
	}
}

func (h *TwilioHandler) SMS(c echo.Context) error {
	form, err := bindMessage(c)
	if err != nil {
		return err
	}
	return h.serve(c, event.SMSReceived{Message: inboundMessage(form)})
}

func (h *TwilioHandler) WhatsApp(c echo.Context) error {
	form, err := bindMessage(c)
	if err != nil {
		return err
	}
	return h.serve(c, event.WhatsAppReceived{
		Message:     inboundMessage(form),
		ProfileName: form.ProfileName,
		ButtonText:  form.ButtonText,
	})
}

func (h *TwilioHandler) Voice(c echo.Context) error {
	form, ok := h.bindCall(c)
	if !ok {
		return h.voiceFallback(c)
	}
	return h.serve(c, event.VoiceCallReceived{Call: callContext(form)})
}

func (h *TwilioHandler) VoiceMenu(c echo.Context) error {
	form, ok := h.bindCall(c)
	if !ok {
		return h.voiceFallback(c)
	}
	return h.serve(c, event.VoiceMenuSelection{Call: callContext(form), Digits: form.Digits})
}

func (h *TwilioHandler) VoiceOrderStatus(c echo.Context) error {
	form, ok := h.bindCall(c)
	if !ok {
		return h.voiceFallback(c)
	}
	return h.serve(c, event.VoiceOrderStatus{Call: callContext(form), Digits: form.Digits})
}

func (h *TwilioHandler) VoiceRecorded(c echo.Context) error {
	form, ok := h.bindCall(c)
	if !ok {
		return h.voiceFallback(c)
	}
	return h.serve(c, event.VoiceRecordingCompleted{
		Call:              callContext(form),
		RecordingSID:      form.RecordingSid,
		RecordingURL:      form.RecordingUrl,
		RecordingDuration: form.RecordingDuration,
	})
}

func (h *TwilioHandler) VoiceTranscription(c echo.Context) error {
	var form dto.CallForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	return h.serve(c, event.VoiceTranscriptionReady{
		Call:                callContext(&form),
		TranscriptionSID:    form.TranscriptionSid,
		TranscriptionText:   form.TranscriptionText,
		TranscriptionStatus: form.TranscriptionStatus,
		RecordingURL:        form.RecordingUrl,
	})
}

func (h *TwilioHandler) VoiceStatus(c echo.Context) error {
	var form dto.CallForm
	if err := bindValid(c, &form); err != nil {
		return err
	}
	return h.serve(c, event.VoiceCallStatus{Call: callContext(&form), Duration: form.CallDuration})
}

func (h *TwilioHandler) serve(c echo.Context, ev event.TelephonyEvent) error {
	start := time.Now()
	kind := string(ev.Kind())

	payload := ""
	if params, err := c.FormParams(); err == nil {
		payload = params.Encode()
	}

	reply, err := h.telephonyService.Handle(c.Request().Context(), ev, payload)
	metrics.WebhookDuration.WithLabelValues(model.ProviderTwilio, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error().Err(err).Str("event_id", ev.EventID()).Str("type", kind).Msg("process twilio callback")
		metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderTwilio, kind, strconv.Itoa(http.StatusInternalServerError)).Inc()
		return c.String(http.StatusInternalServerError, "processing failed")
	}

	metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderTwilio, kind, strconv.Itoa(http.StatusOK)).Inc()
	if reply.Document == "" {
		return c.String(http.StatusOK, "OK")
	}
	return c.Blob(http.StatusOK, mimeTextXML, []byte(reply.Document))
}

// bindCall reports false when the voice form is unusable; the caller still
// gets a spoken answer.
func (h *TwilioHandler) bindCall(c echo.Context) (*dto.CallForm, bool) {
	var form dto.CallForm
	if err := bindValid(c, &form); err != nil {
		log.Warn().Err(err).Str("path", c.Path()).Msg("invalid voice callback form")
		return nil, false
	}
	return &form, true
}

func (h *TwilioHandler) voiceFallback(c echo.Context) error {
	return c.Blob(http.StatusOK, mimeTextXML, []byte(ivr.Fallback(h.defaultLanguage)))
}

func bindMessage(c echo.Context) (*dto.MessageForm, error) {
	var form dto.MessageForm
	if err := bindValid(c, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func bindValid(c echo.Context, form interface{}) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}
	if err := c.Validate(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func inboundMessage(form *dto.MessageForm) event.InboundMessage {
	return event.InboundMessage{
		SID:  form.MessageSid,
		From: form.From,
		To:   form.To,
		Body: form.Body,
	}
}

func callContext(form *dto.CallForm) event.CallContext {
	return event.CallContext{
		CallSID:    form.CallSid,
		From:       form.From,
		To:         form.To,
		CallStatus: form.CallStatus,
	}
}

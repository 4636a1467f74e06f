package dto

import "time"

// MessageForm is the form Twilio posts for an inbound SMS or WhatsApp message.
type MessageForm struct {
	MessageSid  string `form:"MessageSid" validate:"required"`
	From        string `form:"From" validate:"required"`
	To          string `form:"To" validate:"required"`
	Body        string `form:"Body"`
	ProfileName string `form:"ProfileName"` // WhatsApp only
	ButtonText  string `form:"ButtonText"`  // WhatsApp quick reply
}

// CallForm covers the voice callbacks: incoming call, gather, record,
// transcription and status.
type CallForm struct {
	CallSid             string `form:"CallSid" validate:"required"`
	From                string `form:"From"`
	To                  string `form:"To"`
	CallStatus          string `form:"CallStatus"`
	Digits              string `form:"Digits"`
	RecordingSid        string `form:"RecordingSid"`
	RecordingUrl        string `form:"RecordingUrl"`
	RecordingDuration   string `form:"RecordingDuration"`
	TranscriptionSid    string `form:"TranscriptionSid"`
	TranscriptionText   string `form:"TranscriptionText"`
	TranscriptionStatus string `form:"TranscriptionStatus"`
	CallDuration        string `form:"CallDuration"`
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Status   string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

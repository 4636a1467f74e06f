package event

import "strings"

// TelephonyEvent is a decoded Twilio callback. EventID is the idempotency key.
type TelephonyEvent interface {
	Event
	EventID() string
	telephonyEvent()
}

type InboundMessage struct {
	SID  string
	From string
	To   string
	Body string
}

type CallContext struct {
	CallSID    string
	From       string
	To         string
	CallStatus string
}

type SMSReceived struct{ Message InboundMessage }

type WhatsAppReceived struct {
	Message     InboundMessage
	ProfileName string
	ButtonText  string // quick-reply button pressed, when any
}

type VoiceCallReceived struct{ Call CallContext }

type VoiceMenuSelection struct {
	Call   CallContext
	Digits string
}

type VoiceOrderStatus struct {
	Call   CallContext
	Digits string
}

type VoiceRecordingCompleted struct {
	Call              CallContext
	RecordingSID      string
	RecordingURL      string
	RecordingDuration string
}

type VoiceTranscriptionReady struct {
	Call                CallContext
	TranscriptionSID    string
	TranscriptionText   string
	TranscriptionStatus string
	RecordingURL        string
}

type VoiceCallStatus struct {
	Call     CallContext
	Duration string
}

func (SMSReceived) Kind() Kind             { return KindSMSReceived }
func (WhatsAppReceived) Kind() Kind        { return KindWhatsAppReceived }
func (VoiceCallReceived) Kind() Kind       { return KindVoiceCallReceived }
func (VoiceMenuSelection) Kind() Kind      { return KindVoiceMenuSelection }
func (VoiceOrderStatus) Kind() Kind        { return KindVoiceOrderStatus }
func (VoiceRecordingCompleted) Kind() Kind { return KindVoiceRecordingCompleted }
func (VoiceTranscriptionReady) Kind() Kind { return KindVoiceTranscriptionReady }
func (VoiceCallStatus) Kind() Kind         { return KindVoiceCallStatus }

func (e SMSReceived) EventID() string      { return e.Message.SID }
func (e WhatsAppReceived) EventID() string { return e.Message.SID }
func (e VoiceCallReceived) EventID() string {
	return callTurnID(e.Call.CallSID, e.Kind())
}
func (e VoiceMenuSelection) EventID() string {
	return callTurnID(e.Call.CallSID, e.Kind(), e.Digits)
}
func (e VoiceOrderStatus) EventID() string {
	return callTurnID(e.Call.CallSID, e.Kind(), e.Digits)
}
func (e VoiceRecordingCompleted) EventID() string {
	if e.RecordingSID != "" {
		return e.RecordingSID
	}
	return callTurnID(e.Call.CallSID, e.Kind())
}
func (e VoiceTranscriptionReady) EventID() string {
	if e.TranscriptionSID != "" {
		return e.TranscriptionSID
	}
	return callTurnID(e.Call.CallSID, e.Kind())
}
func (e VoiceCallStatus) EventID() string {
	return callTurnID(e.Call.CallSID, e.Kind(), e.Call.CallStatus)
}

func (SMSReceived) telephonyEvent()             {}
func (WhatsAppReceived) telephonyEvent()        {}
func (VoiceCallReceived) telephonyEvent()       {}
func (VoiceMenuSelection) telephonyEvent()      {}
func (VoiceOrderStatus) telephonyEvent()        {}
func (VoiceRecordingCompleted) telephonyEvent() {}
func (VoiceTranscriptionReady) telephonyEvent() {}
func (VoiceCallStatus) telephonyEvent()         {}

func callTurnID(callSID string, kind Kind, parts ...string) string {
	return strings.Join(append([]string{callSID, string(kind)}, parts...), ":")
}

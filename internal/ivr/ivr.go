// Package ivr drives the voice call flow. Twilio re-invokes a webhook on every
// turn with the call context, so Step derives the next state from that input
// alone and no session is stored.
package ivr

import (
	"fmt"
	"strings"

	"restaurant-webhooks/internal/lang"

	"github.com/twilio/twilio-go/twiml"
)

const (
	PathVoice         = "/webhooks/twilio/voice"
	PathMenu          = "/webhooks/twilio/voice/menu"
	PathOrderStatus   = "/webhooks/twilio/voice/order-status"
	PathRecorded      = "/webhooks/twilio/voice/recorded"
	PathTranscription = "/webhooks/twilio/voice/transcription"
	PathStatus        = "/webhooks/twilio/voice/status"
)

const (
	gatherTimeoutSeconds = "5"
	statusTimeoutSeconds = "10"
	maxRecordingSeconds  = "120"
)

type State string

const (
	StateRinging          State = "ringing"
	StateMainMenu         State = "main_menu"
	StateOrderRecording   State = "order_recording"
	StateOrderStatusQuery State = "order_status_query"
	StateTransferred      State = "transferred"
	StateEnded            State = "ended"
)

// Turn names the callback that produced the request.
type Turn int

const (
	TurnIncoming Turn = iota
	TurnMenuSelection
	TurnOrderStatus
	TurnRecorded
)

// Call is the per-request view of a live call.
type Call struct {
	SID      string
	Caller   string
	Dialed   string
	Language lang.Language
}

type Restaurant struct {
	Name           string
	OpeningHours   string
	Address        string
	TransferNumber string
}

type OrderLookup struct {
	Reference string
	Status    string
}

type Input struct {
	Turn       Turn
	Digits     string
	Call       Call
	BaseURL    string       // prefix for callback URLs; empty keeps them root-relative
	Restaurant *Restaurant  // nil when the dialed number belongs to no tenant
	Order      *OrderLookup // order-status turn only; nil when not found
}

type Result struct {
	State State
	Verbs []twiml.Element
}

func (r Result) Render() (string, error) {
	doc, err := twiml.Voice(r.Verbs)
	if err != nil {
		return "", fmt.Errorf("render voice response: %w", err)
	}
	return doc, nil
}

func Step(in Input) Result {
	s := stepper{in: in, p: promptsFor(in.Call.Language)}

	switch in.Turn {
	case TurnIncoming:
		return s.greeting()
	case TurnMenuSelection:
		return s.menuSelection()
	case TurnOrderStatus:
		return s.orderStatus()
	case TurnRecorded:
		return Result{State: StateEnded, Verbs: []twiml.Element{s.say(s.p.RecordingThanks), &twiml.VoiceHangup{}}}
	default:
		return s.restart(s.p.InvalidSelection)
	}
}

type stepper struct {
	in Input
	p  prompts
}

func (s stepper) greeting() Result {
	welcome := s.p.Welcome
	if s.in.Restaurant != nil && s.in.Restaurant.Name != "" {
		welcome = fmt.Sprintf(s.p.WelcomeNamed, s.in.Restaurant.Name)
	}

	return Result{
		State: StateMainMenu,
		Verbs: []twiml.Element{
			s.say(welcome),
			&twiml.VoiceGather{
				NumDigits:     "1",
				Timeout:       gatherTimeoutSeconds,
				Action:        s.url(PathMenu),
				Method:        "POST",
				InnerElements: []twiml.Element{s.say(s.p.Menu)},
			},
			// reached only when the gather timed out; treated like an invalid digit
			s.say(s.p.InvalidSelection),
			s.redirect(),
		},
	}
}

func (s stepper) menuSelection() Result {
	switch strings.TrimSpace(s.in.Digits) {
	case "1":
		return Result{
			State: StateOrderRecording,
			Verbs: []twiml.Element{
				s.say(s.p.OrderInstructions),
				&twiml.VoiceRecord{
					MaxLength:          maxRecordingSeconds,
					Transcribe:         "true",
					TranscribeCallback: s.url(PathTranscription),
					Action:             s.url(PathRecorded),
					Method:             "POST",
					PlayBeep:           "true",
					FinishOnKey:        "#",
				},
			},
		}
	case "2":
		return Result{
			State: StateOrderStatusQuery,
			Verbs: []twiml.Element{
				&twiml.VoiceGather{
					FinishOnKey:   "#",
					Timeout:       statusTimeoutSeconds,
					Action:        s.url(PathOrderStatus),
					Method:        "POST",
					InnerElements: []twiml.Element{s.say(s.p.OrderStatusPrompt)},
				},
				s.say(s.p.NoInput),
				s.redirect(),
			},
		}
	case "3":
		return s.restart(s.info())
	case "9":
		if s.in.Restaurant != nil && s.in.Restaurant.TransferNumber != "" {
			return Result{
				State: StateTransferred,
				Verbs: []twiml.Element{
					s.say(s.p.Transferring),
					&twiml.VoiceDial{Number: s.in.Restaurant.TransferNumber},
				},
			}
		}
		return s.restart(s.p.NoRepresentative)
	default:
		return s.restart(s.p.InvalidSelection)
	}
}

func (s stepper) orderStatus() Result {
	if s.in.Order == nil {
		return s.restart(s.p.OrderNotFound)
	}

	return Result{
		State: StateEnded,
		Verbs: []twiml.Element{
			s.say(fmt.Sprintf(s.p.OrderStatus, spellDigits(s.in.Order.Reference), s.p.status(s.in.Order.Status))),
			&twiml.VoiceHangup{},
		},
	}
}

func (s stepper) info() string {
	r := s.in.Restaurant
	if r == nil || (r.OpeningHours == "" && r.Address == "") {
		return s.p.InfoUnavailable
	}
	return fmt.Sprintf(s.p.Info, r.OpeningHours, r.Address)
}

// restart speaks text and sends the caller back to the greeting.
func (s stepper) restart(text string) Result {
	return Result{
		State: StateRinging,
		Verbs: []twiml.Element{s.say(text), s.redirect()},
	}
}

func (s stepper) say(text string) *twiml.VoiceSay {
	return say(s.in.Call.Language, text)
}

func (s stepper) redirect() *twiml.VoiceRedirect {
	return &twiml.VoiceRedirect{Url: s.url(PathVoice), Method: "POST"}
}

func (s stepper) url(path string) string {
	return strings.TrimRight(s.in.BaseURL, "/") + path
}

func say(l lang.Language, text string) *twiml.VoiceSay {
	return &twiml.VoiceSay{Message: text, Voice: l.Voice(), Language: l.Locale()}
}

// spellDigits makes speech engines read "123456" digit by digit.
func spellDigits(ref string) string {
	return strings.Join(strings.Split(ref, ""), " ")
}

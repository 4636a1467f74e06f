package ivr

import (
	"restaurant-webhooks/internal/lang"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go/twiml"
)

const staticFallback = `<?xml version="1.0" encoding="UTF-8"?><Response><Say>We are sorry, a technical problem occurred.</Say><Hangup/></Response>`

// Fallback is the apology-and-hangup document served when a voice turn fails.
func Fallback(l lang.Language) string {
	doc, err := twiml.Voice([]twiml.Element{say(l, promptsFor(l).Apology), &twiml.VoiceHangup{}})
	if err != nil {
		log.Error().Err(err).Msg("render fallback voice response")
		return staticFallback
	}
	return doc
}

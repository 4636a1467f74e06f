package ivr

import (
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/model"
)

type prompts struct {
	Welcome           string
	WelcomeNamed      string // %s restaurant name
	Menu              string
	NoInput           string
	InvalidSelection  string
	OrderInstructions string
	OrderStatusPrompt string
	OrderStatus       string // %s reference digits, %s status
	OrderNotFound     string
	Info              string // %s opening hours, %s address
	InfoUnavailable   string
	Transferring      string
	NoRepresentative  string
	RecordingThanks   string
	Apology           string
	Statuses          map[string]string
}

var catalog = map[lang.Language]prompts{
	lang.German: {
		Welcome:           "Willkommen.",
		WelcomeNamed:      "Willkommen bei %s.",
		Menu:              "Für eine Bestellung drücken Sie die 1. Für den Status einer Bestellung die 2. Für Öffnungszeiten und Adresse die 3. Um mit einer Mitarbeiterin oder einem Mitarbeiter zu sprechen, drücken Sie die 9.",
		NoInput:           "Wir haben keine Eingabe erhalten.",
		InvalidSelection:  "Diese Auswahl ist leider ungültig.",
		OrderInstructions: "Bitte nennen Sie nach dem Signalton Ihre Bestellung, ob Sie abholen oder liefern lassen möchten, und drücken Sie anschliessend die Raute-Taste.",
		OrderStatusPrompt: "Bitte geben Sie Ihre sechsstellige Bestellnummer ein und drücken Sie die Raute-Taste.",
		OrderStatus:       "Ihre Bestellung %s ist %s. Vielen Dank für Ihren Anruf.",
		OrderNotFound:     "Wir konnten keine Bestellung mit dieser Nummer finden.",
		Info:              "Unsere Öffnungszeiten: %s. Sie finden uns an folgender Adresse: %s.",
		InfoUnavailable:   "Öffnungszeiten und Adresse finden Sie auf unserer Webseite.",
		Transferring:      "Einen Moment bitte, wir verbinden Sie.",
		NoRepresentative:  "Leider ist im Moment niemand erreichbar.",
		RecordingThanks:   "Vielen Dank für Ihre Bestellung. Sie erhalten in Kürze eine Bestätigung per SMS. Auf Wiederhören.",
		Apology:           "Es tut uns leid, es ist ein technischer Fehler aufgetreten. Bitte versuchen Sie es später noch einmal.",
		Statuses: map[string]string{
			model.OrderStatusPendingConfirmation: "eingegangen und wartet auf Bestätigung",
			model.OrderStatusPending:             "eingegangen",
			model.OrderStatusConfirmed:           "bestätigt",
			model.OrderStatusReady:               "bereit",
			model.OrderStatusCompleted:           "abgeschlossen",
			model.OrderStatusExpired:             "abgelaufen",
			model.OrderStatusCanceled:            "storniert",
		},
	},
	lang.French: {
		Welcome:           "Bienvenue.",
		WelcomeNamed:      "Bienvenue chez %s.",
		Menu:              "Pour passer une commande, tapez 1. Pour connaître le statut d'une commande, tapez 2. Pour nos horaires et notre adresse, tapez 3. Pour parler à un collaborateur, tapez 9.",
		NoInput:           "Nous n'avons reçu aucune saisie.",
		InvalidSelection:  "Ce choix n'est malheureusement pas valide.",
		OrderInstructions: "Après le bip, indiquez votre commande et précisez si c'est à emporter ou en livraison, puis appuyez sur la touche dièse.",
		OrderStatusPrompt: "Veuillez saisir votre numéro de commande à six chiffres suivi de la touche dièse.",
		OrderStatus:       "Votre commande %s est %s. Merci de votre appel.",
		OrderNotFound:     "Nous n'avons trouvé aucune commande avec ce numéro.",
		Info:              "Nos horaires : %s. Notre adresse : %s.",
		InfoUnavailable:   "Vous trouverez nos horaires et notre adresse sur notre site web.",
		Transferring:      "Un instant s'il vous plaît, nous vous mettons en relation.",
		NoRepresentative:  "Malheureusement, personne n'est disponible pour le moment.",
		RecordingThanks:   "Merci pour votre commande. Vous recevrez bientôt une confirmation par SMS. Au revoir.",
		Apology:           "Nous sommes désolés, une erreur technique est survenue. Veuillez réessayer plus tard.",
		Statuses: map[string]string{
			model.OrderStatusPendingConfirmation: "reçue et en attente de confirmation",
			model.OrderStatusPending:             "reçue",
			model.OrderStatusConfirmed:           "confirmée",
			model.OrderStatusReady:               "prête",
			model.OrderStatusCompleted:           "terminée",
			model.OrderStatusExpired:             "expirée",
			model.OrderStatusCanceled:            "annulée",
		},
	},
	lang.Italian: {
		Welcome:           "Benvenuti.",
		WelcomeNamed:      "Benvenuti da %s.",
		Menu:              "Per effettuare un ordine premete 1. Per lo stato di un ordine premete 2. Per orari e indirizzo premete 3. Per parlare con un collaboratore premete 9.",
		NoInput:           "Non abbiamo ricevuto alcuna selezione.",
		InvalidSelection:  "Purtroppo questa selezione non è valida.",
		OrderInstructions: "Dopo il segnale acustico dite il vostro ordine, indicando se è da asporto o con consegna, poi premete il tasto cancelletto.",
		OrderStatusPrompt: "Inserite il numero d'ordine di sei cifre seguito dal tasto cancelletto.",
		OrderStatus:       "Il vostro ordine %s è %s. Grazie per la chiamata.",
		OrderNotFound:     "Non abbiamo trovato nessun ordine con questo numero.",
		Info:              "I nostri orari: %s. Il nostro indirizzo: %s.",
		InfoUnavailable:   "Trovate orari e indirizzo sul nostro sito web.",
		Transferring:      "Un momento per favore, vi mettiamo in contatto.",
		NoRepresentative:  "Purtroppo al momento nessuno è disponibile.",
		RecordingThanks:   "Grazie per il vostro ordine. Riceverete a breve una conferma via SMS. Arrivederci.",
		Apology:           "Siamo spiacenti, si è verificato un errore tecnico. Vi preghiamo di riprovare più tardi.",
		Statuses: map[string]string{
			model.OrderStatusPendingConfirmation: "ricevuto e in attesa di conferma",
			model.OrderStatusPending:             "ricevuto",
			model.OrderStatusConfirmed:           "confermato",
			model.OrderStatusReady:               "pronto",
			model.OrderStatusCompleted:           "completato",
			model.OrderStatusExpired:             "scaduto",
			model.OrderStatusCanceled:            "annullato",
		},
	},
	lang.English: {
		Welcome:           "Welcome.",
		WelcomeNamed:      "Welcome to %s.",
		Menu:              "To place an order, press 1. For the status of an order, press 2. For opening hours and address, press 3. To speak to a member of staff, press 9.",
		NoInput:           "We did not receive any input.",
		InvalidSelection:  "Sorry, that selection is not valid.",
		OrderInstructions: "After the beep, please tell us your order and whether it is for pickup or delivery, then press the hash key.",
		OrderStatusPrompt: "Please enter your six digit order number followed by the hash key.",
		OrderStatus:       "Your order %s is %s. Thank you for calling.",
		OrderNotFound:     "We could not find an order with that number.",
		Info:              "Our opening hours are %s. You can find us at %s.",
		InfoUnavailable:   "You can find our opening hours and address on our website.",
		Transferring:      "One moment please, we are connecting you.",
		NoRepresentative:  "Unfortunately nobody is available right now.",
		RecordingThanks:   "Thank you for your order. You will receive a text message confirmation shortly. Goodbye.",
		Apology:           "We are sorry, a technical problem occurred. Please try again later.",
		Statuses: map[string]string{
			model.OrderStatusPendingConfirmation: "received and awaiting confirmation",
			model.OrderStatusPending:             "received",
			model.OrderStatusConfirmed:           "confirmed",
			model.OrderStatusReady:               "ready",
			model.OrderStatusCompleted:           "completed",
			model.OrderStatusExpired:             "expired",
			model.OrderStatusCanceled:            "canceled",
		},
	},
}

func promptsFor(l lang.Language) prompts {
	if p, ok := catalog[l]; ok {
		return p
	}
	return catalog[lang.German]
}

func (p prompts) status(status string) string {
	if s, ok := p.Statuses[status]; ok {
		return s
	}
	return status
}

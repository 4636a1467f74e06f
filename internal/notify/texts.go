package notify

import "restaurant-webhooks/internal/lang"

type texts struct {
	OrderReceived        string // %s reference, %s items, %s total
	OrderReceivedNoItems string // %s reference
	QuickReplies         []string
	HoursReply           string // %s opening hours
	HoursUnknown         string
	MenuReply            string // %s menu link
	MenuUnknown          string
	Fallback             string

	PaymentSucceededSubject     string
	PaymentSucceeded            string // %s reference, %s amount
	PaymentFailedSubject        string
	PaymentFailed               string // %s reference
	PaymentFailedReason         string // %s provider message
	SubscriptionCanceledSubject string
	SubscriptionCanceled        string // %s restaurant name
	TrialEndingSubject          string
	TrialEnding                 string // %s date
	InvoiceFailedSubject        string
	InvoiceFailed               string // %s amount
	Footer                      string
}

var catalog = map[lang.Language]texts{
	lang.German: {
		OrderReceived:        "Danke! Ihre Bestellung %s ist eingegangen: %s. Total %s. Wir bestätigen in Kürze.",
		OrderReceivedNoItems: "Danke! Wir haben Ihre Nachricht erhalten (Bestellung %s) und melden uns in Kürze.",
		QuickReplies:         []string{"Bestätigen", "Ändern", "Stornieren"},
		HoursReply:           "Unsere Öffnungszeiten: %s",
		HoursUnknown:         "Unsere Öffnungszeiten finden Sie auf unserer Webseite.",
		MenuReply:            "Unsere Speisekarte finden Sie hier: %s",
		MenuUnknown:          "Schreiben Sie uns, was Sie möchten, und wir senden Ihnen unser Angebot.",
		Fallback:             "Hallo! Schreiben Sie uns einfach Ihre Bestellung, zum Beispiel: 2 Pizza Margherita zum Abholen.",

		PaymentSucceededSubject:     "Zahlung erhalten",
		PaymentSucceeded:            "Wir haben Ihre Zahlung für Bestellung %s über %s erhalten.",
		PaymentFailedSubject:        "Zahlung fehlgeschlagen",
		PaymentFailed:               "Die Zahlung für Bestellung %s ist fehlgeschlagen.",
		PaymentFailedReason:         "Grund: %s",
		SubscriptionCanceledSubject: "Abonnement beendet",
		SubscriptionCanceled:        "Das Abonnement für %s wurde beendet.",
		TrialEndingSubject:          "Ihre Testphase endet bald",
		TrialEnding:                 "Ihre Testphase endet am %s.",
		InvoiceFailedSubject:        "Rechnung konnte nicht bezahlt werden",
		InvoiceFailed:               "Die Zahlung Ihrer Rechnung über %s ist fehlgeschlagen. Bitte aktualisieren Sie Ihre Zahlungsmethode.",
		Footer:                      "Diese Nachricht wurde automatisch versendet.",
	},
	lang.French: {
		OrderReceived:        "Merci ! Votre commande %s est reçue : %s. Total %s. Nous confirmons sous peu.",
		OrderReceivedNoItems: "Merci ! Nous avons bien reçu votre message (commande %s) et revenons vers vous sous peu.",
		QuickReplies:         []string{"Confirmer", "Modifier", "Annuler"},
		HoursReply:           "Nos horaires : %s",
		HoursUnknown:         "Vous trouverez nos horaires sur notre site web.",
		MenuReply:            "Notre carte : %s",
		MenuUnknown:          "Écrivez-nous ce que vous souhaitez et nous vous enverrons notre offre.",
		Fallback:             "Bonjour ! Écrivez-nous simplement votre commande, par exemple : 2 pizzas margherita à emporter.",

		PaymentSucceededSubject:     "Paiement reçu",
		PaymentSucceeded:            "Nous avons reçu votre paiement de %[2]s pour la commande %[1]s.",
		PaymentFailedSubject:        "Échec du paiement",
		PaymentFailed:               "Le paiement de la commande %s a échoué.",
		PaymentFailedReason:         "Motif : %s",
		SubscriptionCanceledSubject: "Abonnement résilié",
		SubscriptionCanceled:        "L'abonnement de %s a été résilié.",
		TrialEndingSubject:          "Votre période d'essai se termine bientôt",
		TrialEnding:                 "Votre période d'essai se termine le %s.",
		InvoiceFailedSubject:        "Échec du paiement de la facture",
		InvoiceFailed:               "Le paiement de votre facture de %s a échoué. Veuillez mettre à jour votre moyen de paiement.",
		Footer:                      "Ce message a été envoyé automatiquement.",
	},
	lang.Italian: {
		OrderReceived:        "Grazie! Il suo ordine %s è stato ricevuto: %s. Totale %s. Confermiamo a breve.",
		OrderReceivedNoItems: "Grazie! Abbiamo ricevuto il suo messaggio (ordine %s) e la ricontattiamo a breve.",
		QuickReplies:         []string{"Conferma", "Modifica", "Annulla"},
		HoursReply:           "I nostri orari: %s",
		HoursUnknown:         "Trova i nostri orari sul nostro sito web.",
		MenuReply:            "Il nostro menu: %s",
		MenuUnknown:          "Ci scriva cosa desidera e le invieremo la nostra offerta.",
		Fallback:             "Buongiorno! Ci scriva semplicemente il suo ordine, per esempio: 2 pizze margherita da asporto.",

		PaymentSucceededSubject:     "Pagamento ricevuto",
		PaymentSucceeded:            "Abbiamo ricevuto il pagamento per l'ordine %s di %s.",
		PaymentFailedSubject:        "Pagamento non riuscito",
		PaymentFailed:               "Il pagamento per l'ordine %s non è riuscito.",
		PaymentFailedReason:         "Motivo: %s",
		SubscriptionCanceledSubject: "Abbonamento terminato",
		SubscriptionCanceled:        "L'abbonamento di %s è terminato.",
		TrialEndingSubject:          "Il periodo di prova sta per terminare",
		TrialEnding:                 "Il periodo di prova termina il %s.",
		InvoiceFailedSubject:        "Pagamento della fattura non riuscito",
		InvoiceFailed:               "Il pagamento della fattura di %s non è riuscito. Aggiorni il metodo di pagamento.",
		Footer:                      "Questo messaggio è stato inviato automaticamente.",
	},
	lang.English: {
		OrderReceived:        "Thank you! Your order %s was received: %s. Total %s. We will confirm shortly.",
		OrderReceivedNoItems: "Thank you! We received your message (order %s) and will get back to you shortly.",
		QuickReplies:         []string{"Confirm", "Change", "Cancel"},
		HoursReply:           "Our opening hours: %s",
		HoursUnknown:         "You can find our opening hours on our website.",
		MenuReply:            "Our menu: %s",
		MenuUnknown:          "Tell us what you would like and we will send you our offer.",
		Fallback:             "Hello! Just send us your order, for example: 2 pizza margherita for pickup.",

		PaymentSucceededSubject:     "Payment received",
		PaymentSucceeded:            "We received your payment for order %s of %s.",
		PaymentFailedSubject:        "Payment failed",
		PaymentFailed:               "The payment for order %s failed.",
		PaymentFailedReason:         "Reason: %s",
		SubscriptionCanceledSubject: "Subscription ended",
		SubscriptionCanceled:        "The subscription for %s has ended.",
		TrialEndingSubject:          "Your trial ends soon",
		TrialEnding:                 "Your trial ends on %s.",
		InvoiceFailedSubject:        "Invoice payment failed",
		InvoiceFailed:               "The payment of your invoice of %s failed. Please update your payment method.",
		Footer:                      "This message was sent automatically.",
	},
}

func textsFor(l lang.Language) texts {
	if t, ok := catalog[l]; ok {
		return t
	}
	return catalog[lang.German]
}

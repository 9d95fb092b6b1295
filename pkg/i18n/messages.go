package i18n

// DefaultMessages returns built-in translations for all supported locales.
// These can be overridden by loading JSON files from a directory.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleEn: enMessages,
		LocaleDe: deMessages,
		LocaleFr: frMessages,
	}
}

var enMessages = map[string]string{
	// Common errors
	"error.not_found":   "The requested resource was not found",
	"error.bad_request": "The request is invalid",
	"error.internal":    "An internal server error occurred",
	"error.validation":  "The submitted values are invalid",

	// Comment intake flash messages
	"message.addComment.error.title":      "Comment rejected",
	"message.addComment.error.text":       "Your comment could not be accepted.",
	"message.addComment.moderation.title": "Comment received",
	"message.addComment.moderation.text":  "Your comment is awaiting moderation and will appear once approved.",
	"message.addComment.success.title":    "Comment published",
	"message.addComment.success.text":     "Thank you, your comment has been published.",

	// Posts
	"post.not_found": "Post not found",
}

var deMessages = map[string]string{
	"error.not_found":   "Die angeforderte Ressource wurde nicht gefunden",
	"error.bad_request": "Ungültige Anfrage",
	"error.internal":    "Ein interner Serverfehler ist aufgetreten",
	"error.validation":  "Die übermittelten Werte sind ungültig",

	"message.addComment.error.title":      "Kommentar abgelehnt",
	"message.addComment.error.text":       "Ihr Kommentar konnte nicht angenommen werden.",
	"message.addComment.moderation.title": "Kommentar eingegangen",
	"message.addComment.moderation.text":  "Ihr Kommentar wartet auf Freigabe und erscheint nach der Prüfung.",
	"message.addComment.success.title":    "Kommentar veröffentlicht",
	"message.addComment.success.text":     "Vielen Dank, Ihr Kommentar wurde veröffentlicht.",

	"post.not_found": "Beitrag nicht gefunden",
}

var frMessages = map[string]string{
	"error.not_found":   "La ressource demandée est introuvable",
	"error.bad_request": "La requête est invalide",
	"error.internal":    "Une erreur interne est survenue",
	"error.validation":  "Les valeurs soumises sont invalides",

	"message.addComment.error.title":      "Commentaire rejeté",
	"message.addComment.error.text":       "Votre commentaire n'a pas pu être accepté.",
	"message.addComment.moderation.title": "Commentaire reçu",
	"message.addComment.moderation.text":  "Votre commentaire est en attente de modération.",
	"message.addComment.success.title":    "Commentaire publié",
	"message.addComment.success.text":     "Merci, votre commentaire a été publié.",

	"post.not_found": "Article introuvable",
}

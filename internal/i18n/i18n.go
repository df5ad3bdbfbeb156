// Package i18n provides the compile-time message catalog: every
// translation is keyed by an enumerated Language and MessageKey, with
// English as the fallback for gaps, so a missing key can never surface
// at runtime as an empty string.
package i18n

// Language is a supported UI language.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Marathi Language = "mr"
	Punjabi Language = "pa"
	Kannada Language = "kn"
	Tamil   Language = "ta"
)

// Supported lists every language with a catalog.
var Supported = []Language{English, Hindi, Marathi, Punjabi, Kannada, Tamil}

// Valid reports whether lang has a catalog.
func (l Language) Valid() bool {
	_, ok := catalogs[l]
	return ok
}

// Name returns the English name of the language, for prompt
// construction. Unknown languages resolve to English.
func Name(l Language) string {
	switch l {
	case Hindi:
		return "Hindi"
	case Marathi:
		return "Marathi"
	case Punjabi:
		return "Punjabi"
	case Kannada:
		return "Kannada"
	case Tamil:
		return "Tamil"
	default:
		return "English"
	}
}

// MessageKey identifies one translatable message.
type MessageKey string

const (
	KeyWelcome              MessageKey = "welcome"
	KeyExpertAnswered       MessageKey = "expert_answered"
	KeyComplexRedirect      MessageKey = "complex_redirect"
	KeyConnectionError      MessageKey = "connection_error"
	KeyNewEscalation        MessageKey = "new_escalation"
	KeyQuestionAnswered     MessageKey = "question_answered"
	KeyPendingReminder      MessageKey = "pending_reminder"
	KeyNoOfficerAvailable   MessageKey = "no_officer_available"
	KeyQuestionEscalated    MessageKey = "question_escalated"
	KeyAnswerSubmitted      MessageKey = "answer_submitted"
	KeyNotificationReadAll  MessageKey = "notification_read_all"
)

// Keys lists every message key, in catalog order.
var Keys = []MessageKey{
	KeyWelcome,
	KeyExpertAnswered,
	KeyComplexRedirect,
	KeyConnectionError,
	KeyNewEscalation,
	KeyQuestionAnswered,
	KeyPendingReminder,
	KeyNoOfficerAvailable,
	KeyQuestionEscalated,
	KeyAnswerSubmitted,
	KeyNotificationReadAll,
}

// T returns the translation for key in lang, falling back to English
// when the language or the key has no entry.
func T(lang Language, key MessageKey) string {
	if catalog, ok := catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	return catalogs[English][key]
}

// Catalog returns the full message map for lang, with English filling
// any gaps. Served to clients so they need not embed translations.
func Catalog(lang Language) map[MessageKey]string {
	out := make(map[MessageKey]string, len(Keys))
	for _, key := range Keys {
		out[key] = T(lang, key)
	}
	return out
}

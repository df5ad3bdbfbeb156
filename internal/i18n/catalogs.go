package i18n

// Per-language catalogs. English is complete by construction; other
// languages may lag behind it and fall back per key.
var catalogs = map[Language]map[MessageKey]string{
	English: {
		KeyWelcome:             "Welcome to Krishi-Mitra! I'm your AI agricultural assistant. How can I help you today?",
		KeyExpertAnswered:      "An expert has provided an answer for a similar question:",
		KeyComplexRedirect:     "This question seems complex. Redirecting you to an expert...",
		KeyConnectionError:     "Please check your connection or ask again.",
		KeyNewEscalation:       "New escalated question from a user in your district:",
		KeyQuestionAnswered:    "Your question has been answered by an agricultural officer.",
		KeyPendingReminder:     "Reminder: a question from your district is still waiting for your answer:",
		KeyNoOfficerAvailable:  "No agricultural officer found for your district.",
		KeyQuestionEscalated:   "Question escalated successfully.",
		KeyAnswerSubmitted:     "Answer submitted successfully.",
		KeyNotificationReadAll: "All notifications marked as read.",
	},
	Hindi: {
		KeyWelcome:          "कृषिमित्र में आपका स्वागत है! मैं आपका AI कृषि सहायक हूँ। मैं आज आपकी कैसे मदद कर सकता हूँ?",
		KeyExpertAnswered:   "एक विशेषज्ञ ने इसी तरह के प्रश्न का उत्तर दिया है:",
		KeyComplexRedirect:  "यह प्रश्न जटिल लगता है। आपको विशेषज्ञ के पास भेजा जा रहा है...",
		KeyConnectionError:  "कृपया अपना कनेक्शन जांचें या फिर से पूछें।",
		KeyNewEscalation:    "आपके जिले के एक उपयोगकर्ता से नया प्रश्न:",
		KeyQuestionAnswered: "आपके प्रश्न का उत्तर कृषि अधिकारी ने दे दिया है।",
	},
	Marathi: {
		KeyWelcome:          "कृषिमित्रमध्ये आपले स्वागत आहे! मी तुमचा AI कृषी सहाय्यक आहे. मी आज तुम्हाला कशी मदत करू?",
		KeyExpertAnswered:   "तज्ज्ञाने अशाच प्रश्नाचे उत्तर दिले आहे:",
		KeyComplexRedirect:  "हा प्रश्न गुंतागुंतीचा वाटतो. तुम्हाला तज्ज्ञाकडे पाठवले जात आहे...",
		KeyConnectionError:  "कृपया आपले कनेक्शन तपासा किंवा पुन्हा विचारा.",
		KeyQuestionAnswered: "तुमच्या प्रश्नाचे उत्तर कृषी अधिकाऱ्याने दिले आहे.",
	},
	Punjabi: {
		KeyConnectionError:  "ਕਿਰਪਾ ਕਰਕੇ ਆਪਣਾ ਕਨੈਕਸ਼ਨ ਜਾਂਚੋ ਜਾਂ ਦੁਬਾਰਾ ਪੁੱਛੋ।",
		KeyQuestionAnswered: "ਤੁਹਾਡੇ ਸਵਾਲ ਦਾ ਜਵਾਬ ਖੇਤੀਬਾੜੀ ਅਫਸਰ ਨੇ ਦੇ ਦਿੱਤਾ ਹੈ।",
	},
	Kannada: {
		KeyConnectionError: "ದಯವಿಟ್ಟು ನಿಮ್ಮ ಸಂಪರ್ಕವನ್ನು ಪರಿಶೀಲಿಸಿ ಅಥವಾ ಮತ್ತೆ ಕೇಳಿ।",
	},
	Tamil: {
		KeyConnectionError: "உங்கள் இணைப்பை சரிபார்க்கவும் அல்லது மீண்டும் கேளுங்கள்।",
	},
}

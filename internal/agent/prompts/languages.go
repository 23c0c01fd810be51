package prompts

import (
	"github.com/maxbolgarin/gitpulse/internal/model"
)

// LanguageConfig defines the target language for AI responses
type LanguageConfig struct {
	Language     model.Language `yaml:"language"`     // Language code (en, es, fr, de, ru)
	Instructions string         `yaml:"instructions"` // Language-specific instructions for the AI
	Name         string         `yaml:"name"`         // Name of the language in English, used in prompts

	ReportSystemPrompt string       `yaml:"report_system_prompt"`
	ReportHeaders      ReportLabels `yaml:"report_labels"`
}

// ReportLabels are field names of a commit inside the report prompt
type ReportLabels struct {
	Project string `yaml:"project"`
	Author  string `yaml:"author"`
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// DefaultLanguages contains predefined language configurations
var DefaultLanguages = map[model.Language]LanguageConfig{
	model.LanguageFrench: {
		Language:           model.LanguageFrench,
		Name:               "French",
		Instructions:       "Répondez en français clair et professionnel. Utilisez une terminologie technique appropriée.",
		ReportSystemPrompt: "Tu es un expert en développement logiciel qui génère des résumés clairs et concis en français.",
		ReportHeaders: ReportLabels{
			Project: "Projet",
			Author:  "Auteur",
			Title:   "Titre",
			Message: "Message",
		},
	},
	model.LanguageEnglish: {
		Language:           model.LanguageEnglish,
		Name:               "English",
		Instructions:       "Respond in clear, professional English. Use appropriate technical terminology.",
		ReportSystemPrompt: "You are a software development expert who writes clear and concise summaries in English.",
		ReportHeaders: ReportLabels{
			Project: "Project",
			Author:  "Author",
			Title:   "Title",
			Message: "Message",
		},
	},
	model.LanguageSpanish: {
		Language:           model.LanguageSpanish,
		Name:               "Spanish",
		Instructions:       "Responde en español claro y profesional. Usa terminología técnica apropiada.",
		ReportSystemPrompt: "Eres un experto en desarrollo de software que redacta resúmenes claros y concisos en español.",
		ReportHeaders: ReportLabels{
			Project: "Proyecto",
			Author:  "Autor",
			Title:   "Título",
			Message: "Mensaje",
		},
	},
	model.LanguageGerman: {
		Language:           model.LanguageGerman,
		Name:               "German",
		Instructions:       "Antworten Sie in klarem, professionellem Deutsch. Verwenden Sie angemessene technische Terminologie.",
		ReportSystemPrompt: "Du bist ein Experte für Softwareentwicklung, der klare und prägnante Zusammenfassungen auf Deutsch schreibt.",
		ReportHeaders: ReportLabels{
			Project: "Projekt",
			Author:  "Autor",
			Title:   "Titel",
			Message: "Nachricht",
		},
	},
	model.LanguageRussian: {
		Language:           model.LanguageRussian,
		Name:               "Russian",
		Instructions:       "Отвечайте на русском языке четко и профессионально. Используйте соответствующую техническую терминологию.",
		ReportSystemPrompt: "Ты эксперт в разработке программного обеспечения, который пишет ясные и краткие сводки на русском языке.",
		ReportHeaders: ReportLabels{
			Project: "Проект",
			Author:  "Автор",
			Title:   "Заголовок",
			Message: "Сообщение",
		},
	},
}

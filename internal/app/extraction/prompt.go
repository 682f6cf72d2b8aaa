package extraction

import (
	"fmt"

	"github.com/PabloGalante/jarvis-agent/internal/domain"
)

// Prompts and response schemas for the four artifact kinds. This is the
// single place a prompt or schema change must be made; the LLM adapter
// only transports whatever is declared here.

func summaryPrompt(corpus string) string {
	return fmt.Sprintf(
		"Act as J.A.R.V.I.S. Based on the following data from emails and WhatsApp, "+
			"generate a concise, bulleted end-of-day summary for me. Highlight key "+
			"decisions, new tasks, and upcoming appointments.\n\nData:\n%s",
		corpus,
	)
}

func tasksPrompt(corpus string) string {
	return fmt.Sprintf(
		"Analyze the following communication data, which is separated into sections "+
			"for EMAIL and WHATSAPP. Extract all actionable tasks. Use the section "+
			"headings (--- EMAIL DATA ---, --- WHATSAPP DATA ---) to correctly set the "+
			"'source' property for each task to either 'Email' or 'WhatsApp'. Provide "+
			"the output as a JSON array of objects.\n\nData:\n%s",
		corpus,
	)
}

func eventsPrompt(corpus string) string {
	return fmt.Sprintf(
		"Analyze the following communication data, separated by source, and extract "+
			"all appointments or scheduled events. Provide the output as a JSON array "+
			"of objects.\n\nData:\n%s",
		corpus,
	)
}

func insightsPrompt(corpus string) string {
	return fmt.Sprintf(
		"Based on the day's communications from email and WhatsApp, provide 2-3 "+
			"strategic or productivity insights for an executive. Frame them as "+
			"proactive suggestions. Provide the output as a JSON array of objects.\n\nData:\n%s",
		corpus,
	)
}

func taskListSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaArray,
		Items: &domain.Schema{
			Type: domain.SchemaObject,
			Properties: map[string]*domain.Schema{
				"id":          {Type: domain.SchemaString},
				"text":        {Type: domain.SchemaString},
				"isCompleted": {Type: domain.SchemaBoolean},
				"source": {
					Type: domain.SchemaString,
					Enum: []string{"Email", "WhatsApp", "Manual"},
				},
			},
			Required: []string{"id", "text", "isCompleted", "source"},
		},
	}
}

func eventListSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaArray,
		Items: &domain.Schema{
			Type: domain.SchemaObject,
			Properties: map[string]*domain.Schema{
				"id": {Type: domain.SchemaString},
				"time": {
					Type:        domain.SchemaString,
					Description: "e.g., 'Tomorrow at 10:00 AM' or 'Thursday at 1:00 PM'",
				},
				"title": {Type: domain.SchemaString},
				"participants": {
					Type:  domain.SchemaArray,
					Items: &domain.Schema{Type: domain.SchemaString},
				},
			},
			Required: []string{"id", "time", "title", "participants"},
		},
	}
}

func insightListSchema() *domain.Schema {
	return &domain.Schema{
		Type: domain.SchemaArray,
		Items: &domain.Schema{
			Type: domain.SchemaObject,
			Properties: map[string]*domain.Schema{
				"id":   {Type: domain.SchemaString},
				"text": {Type: domain.SchemaString},
				"category": {
					Type: domain.SchemaString,
					Enum: []string{"Strategic", "Productivity", "Personal"},
				},
			},
			Required: []string{"id", "text", "category"},
		},
	}
}

package openai

import (
	"encoding/json"
	"fmt"

	"github.com/careloop/symptom-intake/internal/domain/entities"
)

const adviceSystemPrompt = `You are a cautious home-care triage assistant. Return ONLY valid JSON with this schema:
{
  "illness": string (the single most likely common illness name, lowercase, or null if unsure),
  "suggestions": string[] (2-5 practical home-care steps, simple language),
  "red_flags": string[] (0-4 warning signs; each item that requires urgent care must start with "seek"),
  "confidence": integer (1-100, how confident you are in the illness, or omit if unsure)
}
Use plain, non-alarmist language a layperson understands. Never prescribe medication doses. Do not include any text outside the JSON object.`

func buildAdviceUserPrompt(symptoms string) string {
	return fmt.Sprintf("Patient-reported symptoms: %s\n", symptoms)
}

func parseAdvicePayload(data []byte) (*entities.Advice, error) {
	var advice entities.Advice
	if err := json.Unmarshal(data, &advice); err != nil {
		return nil, fmt.Errorf("failed to parse advice payload: %w", err)
	}
	return &advice, nil
}

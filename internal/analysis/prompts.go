package analysis

import "fmt"

// classifySystemPrompt drives the structured classification pass. The engine
// must answer with a single JSON object matching classifyOutput.
const classifySystemPrompt = `You are the e_DakSeva core processing unit for postal complaint analysis and automated responses.
Your tasks follow the official WORKFLOW:
1. Citizen Submits Complaint -> Data Collection -> Preprocessing.
2. NLP Engine: Understand the text deeply.
3. Validation & Classification:
   - Categorize as "Delay", "Lost", "Damage", or "Others" if it's a valid grievance.
   - Categorize as "Invalid" if the text is meaningless (gibberish, random characters like "asdfgh"), completely unrelated to postal services, or empty of content.
4. Sentiment Analysis: "Angry", "Unhappy", "Neutral" or "Positive". (If Invalid, use Neutral).
5. Urgency Check:
   - "Urgent" (High Priority): Escalate to Postal Officer. (requiresReview: true)
   - "Normal" (Normal Priority): Automated Response Queue. (requiresReview: false)
   - "Low" (For Invalid): Mark as needing review but clearly state it is invalid. (requiresReview: true)

Output format JSON:
{
 "category": "Delay | Lost | Damage | Invalid | Others",
 "sentiment": "Angry | Unhappy | Neutral | Positive",
 "priority": "Urgent | Normal | Low",
 "response": "If valid, provide a brief summary. If invalid, state: 'The provided content is identified as an invalid or meaningless grievance.'",
 "requiresReview": true/false,
 "confidenceScore": 0.XX
}
Respond with the JSON object only, no surrounding prose.`

// invalidDraft is returned for the Invalid category without consulting the
// engine. It is always English regardless of the requested language.
const invalidDraft = `Subject: Notification regarding your recent submission

Dear Customer,

Thank you for reaching out to the Department of Posts. Upon reviewing your recent submission, our automated system has identified that the content does not contain a recognizable grievance or specific service request related to India Post.

As a result, we are unable to process this request further. If you have a specific complaint regarding a parcel, delay, or service, please provide more details including any relevant tracking numbers.

Best regards,
e_DakSeva Customer Support Team`

// chatSystemPrompt sets the persona for the citizen-facing assistant.
const chatSystemPrompt = `You are DakMitra, the India Post AI assistant on the e_DakSeva portal.
Answer citizen questions about postal services: tracking, complaints, delivery timelines, post office services.
Be warm, concise and practical. If a question is outside postal services, politely redirect to postal topics.
If the citizen describes a grievance, encourage them to file it through the portal complaint form.`

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
}

func draftPrompt(req DraftRequest) string {
	targetLang, ok := languageNames[req.Language]
	if !ok {
		targetLang = "English"
	}
	return fmt.Sprintf(`Write a polite email response to a postal customer based on complaint details below.
The entire response MUST be written in %s.

Complaint:
%s

Detected category: %s
Sentiment: %s
Priority: %s

Keep tone:
- empathetic
- professional
- short (80-120 words)
- include a subject line
- use "e_DakSeva Customer Support Team" as the signature in %s`,
		targetLang, req.ComplaintText, req.Category, req.Sentiment, req.Priority, targetLang)
}

package llm

import "strings"

type topic struct {
	name     string
	keywords []string
	reply    string
}

// topics are checked in order; the first match wins.
var topics = []topic{
	{
		name:     "career",
		keywords: []string{"best career", "which career", "what career", "choose a career"},
		reply:    "Good options today include Software Engineering, Data Science, Product Management, and Cloud Engineering — choose based on your interests and strengths.",
	},
	{
		name:     "skills",
		keywords: []string{"skills", "skill", "skills required"},
		reply:    "In-demand skills: programming (Python/JavaScript), data analysis, cloud platforms (AWS/GCP/Azure), version control, and communication.",
	},
	{
		name:     "resume",
		keywords: []string{"resume", "cv"},
		reply:    "For resumes: highlight impact (metrics), use concise bullet points, tailor to the job, and keep it to one page for early-career.",
	},
	{
		name:     "interview",
		keywords: []string{"interview", "how to prepare"},
		reply:    "Practice common behavioral and technical questions, do mock interviews, study the company's products, and prepare short STAR-format stories for behavioral answers.",
	},
	{
		name:     "greeting",
		keywords: []string{"hello", "hi"},
		reply:    "Hello! I'm your Career Counselor Bot. Ask me about career paths, skills to learn, resume tips, or interview prep.",
	},
}

const genericReply = "I can help with careers, required skills, resumes, interviews, and learning paths. Could you ask a career-related question?"

// RuleReply answers from canned replies by case-insensitive keyword match.
func RuleReply(message string) string {
	if t, ok := matchTopic(message); ok {
		return t.reply
	}
	return genericReply
}

func matchTopic(message string) (topic, bool) {
	msg := strings.ToLower(message)
	for _, t := range topics {
		for _, k := range t.keywords {
			if strings.Contains(msg, k) {
				return t, true
			}
		}
	}
	return topic{}, false
}

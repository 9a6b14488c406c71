package matching

// Keyword vocabularies for the role-similarity heuristic. Matched as
// substring occurrences against normalized titles; keep them lowercase.

var techKeywords = []string{
	"software", "engineer", "developer", "programmer", "architect",
	"data", "machine learning", "ml", "ai", "frontend", "backend",
	"fullstack", "full stack", "devops", "sre", "qa", "test",
	"mobile", "ios", "android", "web",
}

var seniorityKeywords = []string{
	"intern", "junior", "senior", "lead", "principal", "staff",
	"manager", "director", "vp", "head", "chief",
}

var specializationKeywords = []string{
	"security", "cloud", "infrastructure", "platform",
	"embedded", "systems", "network", "database",
}

// relevantPositionTerms mark titles with hiring or recruiting authority.
var relevantPositionTerms = []string{
	"recruiter", "recruiting", "talent", "hr", "human resources",
	"hiring", "manager", "director", "lead", "head", "vp",
	"chief", "cto", "ceo", "founder",
}

func roleKeywordVocabulary() []string {
	out := make([]string, 0, len(techKeywords)+len(seniorityKeywords)+len(specializationKeywords))
	out = append(out, techKeywords...)
	out = append(out, seniorityKeywords...)
	out = append(out, specializationKeywords...)
	return out
}

package triage

import "strings"

const maxRelatedSymptoms = 8

type symptomEntry struct {
	name    string
	aliases []string
}

// symptomKeywords maps free-text phrasing to canonical symptom names,
// Indonesian-first with common English synonyms. Order fixes the extraction
// order.
var symptomKeywords = []symptomEntry{
	{"demam", []string{"demam", "panas", "fever", "hot"}},
	{"batuk", []string{"batuk", "cough"}},
	{"pilek", []string{"pilek", "ingus", "runny nose", "hidung tersumbat"}},
	{"sakit kepala", []string{"sakit kepala", "pusing", "headache", "dizzy"}},
	{"mual", []string{"mual", "nausea", "pengen muntah"}},
	{"muntah", []string{"muntah", "vomit"}},
	{"diare", []string{"diare", "mencret", "diarrhea", "bab cair"}},
	{"konstipasi", []string{"konstipasi", "sembelit", "susah bab", "constipation"}},
	{"nyeri perut", []string{"sakit perut", "nyeri perut", "perut sakit", "stomach pain"}},
	{"sesak napas", []string{"sesak napas", "susah bernapas", "shortness of breath"}},
	{"nyeri dada", []string{"sakit dada", "nyeri dada", "chest pain"}},
	{"kelelahan", []string{"lelah", "capek", "fatigue", "tired"}},
	{"nyeri otot", []string{"nyeri otot", "pegal", "muscle pain"}},
	{"ruam", []string{"ruam", "bintik merah", "rash"}},
	{"gatal", []string{"gatal", "itchy"}},
	{"bengkak", []string{"bengkak", "swelling"}},
	{"berkeringat", []string{"berkeringat", "sweating", "keringat berlebih"}},
}

var symptomAssociations = map[string][]string{
	"demam":        {"sakit kepala", "kelelahan", "nyeri otot", "berkeringat"},
	"batuk":        {"pilek", "sakit kepala", "kelelahan"},
	"pilek":        {"batuk", "sakit kepala"},
	"sakit kepala": {"demam", "mual", "kelelahan"},
	"mual":         {"muntah", "sakit kepala", "nyeri perut"},
	"muntah":       {"mual", "nyeri perut", "kelelahan"},
	"diare":        {"nyeri perut", "mual", "kelelahan"},
	"nyeri perut":  {"mual", "muntah", "diare"},
	"sesak napas":  {"batuk", "nyeri dada", "kelelahan"},
	"nyeri dada":   {"sesak napas", "kelelahan"},
	"kelelahan":    {"demam", "sakit kepala", "nyeri otot"},
	"ruam":         {"gatal", "demam"},
	"gatal":        {"ruam"},
}

type conditionEntry struct {
	name     string
	symptoms []string
}

var conditionDatabase = []conditionEntry{
	{"flu", []string{"demam", "batuk", "pilek", "sakit kepala", "nyeri otot", "kelelahan"}},
	{"covid-19", []string{"demam", "batuk kering", "sesak napas", "hilang penciuman", "hilang pengecapan", "kelelahan"}},
	{"dengue", []string{"demam tinggi", "sakit kepala", "nyeri mata", "nyeri otot", "ruam kulit", "mual"}},
	{"typhoid", []string{"demam", "sakit kepala", "nyeri perut", "diare", "konstipasi", "ruam"}},
	{"gastritis", []string{"nyeri perut", "mual", "muntah", "kembung", "heartburn"}},
	{"hipertensi", []string{"sakit kepala", "pusing", "sesak napas", "nyeri dada", "penglihatan kabur"}},
	{"diabetes", []string{"sering haus", "sering buang air kecil", "kelelahan", "penglihatan kabur", "luka sulit sembuh"}},
	{"asma", []string{"sesak napas", "mengi", "batuk", "dada sesak"}},
	{"migrain", []string{"sakit kepala berdenyut", "mual", "muntah", "sensitif cahaya", "sensitif suara"}},
	{"pneumonia", []string{"batuk", "demam", "sesak napas", "nyeri dada", "kelelahan"}},
}

// ExtractSymptoms scans free text for known symptom phrasing and returns the
// canonical names, deduplicated, in dictionary order.
func ExtractSymptoms(message string) []string {
	lower := strings.ToLower(message)

	var extracted []string
	for _, entry := range symptomKeywords {
		for _, alias := range entry.aliases {
			if strings.Contains(lower, alias) {
				extracted = append(extracted, entry.name)
				break
			}
		}
	}

	return extracted
}

// RelatedSymptoms suggests symptoms that commonly accompany the extracted
// ones, excluding anything already extracted.
func RelatedSymptoms(extracted []string) []string {
	seen := make(map[string]bool, len(extracted))
	for _, s := range extracted {
		seen[s] = true
	}

	var related []string
	for _, s := range extracted {
		for _, r := range symptomAssociations[s] {
			if seen[r] {
				continue
			}
			seen[r] = true
			related = append(related, r)
		}
	}

	return related
}

// ConditionSymptoms returns the known symptoms of every database condition
// mentioned in the given condition name.
func ConditionSymptoms(condition string) []string {
	lower := strings.ToLower(condition)

	var symptoms []string
	seen := make(map[string]bool)
	for _, entry := range conditionDatabase {
		if !strings.Contains(lower, entry.name) {
			continue
		}
		for _, s := range entry.symptoms {
			if seen[s] {
				continue
			}
			seen[s] = true
			symptoms = append(symptoms, s)
		}
	}

	return symptoms
}

// SuggestRelated merges association-based and condition-based suggestions,
// keeping first-occurrence order, dropping already-extracted symptoms and
// capping the list at 8.
func SuggestRelated(extracted []string, condition string) []string {
	seen := make(map[string]bool, len(extracted))
	for _, s := range extracted {
		seen[s] = true
	}

	var related []string
	add := func(symptoms []string) {
		for _, s := range symptoms {
			if seen[s] {
				continue
			}
			seen[s] = true
			related = append(related, s)
		}
	}
	add(RelatedSymptoms(extracted))
	add(ConditionSymptoms(condition))

	if len(related) > maxRelatedSymptoms {
		related = related[:maxRelatedSymptoms]
	}

	return related
}

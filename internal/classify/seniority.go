package classify

import (
	"regexp"

	"jobhunter/internal/types"
)

// seniorityRules is an ordered cascade evaluated top to bottom against the
// lower-cased title; the first matching pattern wins. Order is load-bearing:
// patterns overlap ("Senior Manager" must resolve to senior, "Mid to Senior"
// must resolve before the generic senior pattern).
var seniorityRules = []struct {
	pattern *regexp.Regexp
	level   string
}{
	{regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|chief|vp|vice president|head of|executive)\b`), types.SeniorityExecutive},
	{regexp.MustCompile(`(?i)\bdirector\b`), types.SeniorityDirector},
	{regexp.MustCompile(`(?i)\b(staff|principal|distinguished)\b`), types.SeniorityStaff},
	{regexp.MustCompile(`(?i)\bmid\W{0,3}(to|/)\W{0,3}senior\b`), types.SenioritySenior},
	{regexp.MustCompile(`(?i)\b(senior|snr|sr\.?|architect)\b`), types.SenioritySenior},
	{regexp.MustCompile(`(?i)\b(manager|lead)\b`), types.SeniorityLead},
	{regexp.MustCompile(`(?i)\b(mid\W?level|intermediate)\b`), types.SeniorityMid},
	{regexp.MustCompile(`(?i)\b(intern|internship|vacationer|vacation program|co\W?op)\b`), types.SeniorityIntern},
	{regexp.MustCompile(`(?i)\b(junior|jnr|jr\.?|graduate|grad|entry\W?level|trainee|cadet)\b`), types.SeniorityJunior},
}

// Seniority detects the seniority level of a job title. Returns the empty
// string when no pattern matches; the pipeline defaults that to mid.
func Seniority(title string) string {
	for _, rule := range seniorityRules {
		if rule.pattern.MatchString(title) {
			return rule.level
		}
	}
	return ""
}

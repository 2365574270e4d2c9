package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/careerpilot/careerpilot/internal/types"
)

// Scraped payloads are loosely typed; every field below is defaulted
// explicitly so that a missing or differently-typed field never propagates a
// nil into a record.

// mapJob converts one raw job item into a JobRecord, stamping capture time.
func mapJob(raw map[string]any) types.JobRecord {
	return types.JobRecord{
		ID:              str(raw, "id", "jobId"),
		Title:           str(raw, "title", "jobTitle"),
		Company:         str(raw, "companyName", "company"),
		Location:        str(raw, "location", "jobLocation"),
		Description:     stripHTML(str(raw, "description", "descriptionHtml", "descriptionText")),
		Salary:          strDefault(raw, "Not specified", "salary", "salaryInfo"),
		JobType:         strDefault(raw, "Not specified", "employmentType", "jobType"),
		ExperienceLevel: strDefault(raw, "Not specified", "experienceLevel", "seniorityLevel"),
		PostedDate:      str(raw, "postedAt", "postedDate", "publishedAt"),
		URL:             str(raw, "link", "url", "jobUrl"),
		CompanySize:     str(raw, "companySize", "companyEmployeesCount"),
		Industry:        str(raw, "industry", "companyIndustry", "industries"),
		Benefits:        strList(raw, "benefits"),
		CapturedAt:      time.Now().UTC(),
		Keywords:        lowered(strList(raw, "keywords", "skills")),
	}
}

// mapProfile converts one raw profile item into a ProfileRecord, applying the
// capture-time truncation caps.
func mapProfile(raw map[string]any) types.ProfileRecord {
	record := types.ProfileRecord{
		FirstName:   str(raw, "firstName"),
		LastName:    str(raw, "lastName"),
		Headline:    str(raw, "headline", "occupation"),
		Connections: num(raw, "connections", "connectionsCount"),
		Followers:   num(raw, "followers", "followersCount"),
		About:       str(raw, "about", "summary"),
		CurrentRole: types.CurrentRole{
			Title:       str(raw, "jobTitle", "currentJobTitle"),
			Company:     str(raw, "companyName", "currentCompany"),
			Industry:    str(raw, "companyIndustry"),
			CompanySize: str(raw, "companySize"),
			Tenure:      str(raw, "currentJobDuration"),
		},
		Skills:         capStrings(profileSkills(raw), types.MaxSkills),
		Certifications: capStrings(titlesOf(raw, "certifications", "title", "name"), types.MaxCertifications),
		Awards:         capStrings(titlesOf(raw, "honorsAndAwards", "title", "name"), types.MaxAwards),
		Interests:      strList(raw, "interests"),
		CapturedAt:     time.Now().UTC(),
	}

	for _, item := range objList(raw, "experiences", "positions") {
		if len(record.Experiences) == types.MaxExperiences {
			break
		}
		record.Experiences = append(record.Experiences, types.Experience{
			Title:       str(item, "title", "position"),
			Company:     str(item, "subtitle", "companyName"),
			Duration:    str(item, "caption", "duration"),
			Description: str(item, "description"),
		})
	}

	for _, item := range objList(raw, "educations", "education") {
		if len(record.Educations) == types.MaxEducations {
			break
		}
		record.Educations = append(record.Educations, types.Education{
			School:  str(item, "title", "schoolName"),
			Degree:  str(item, "degree", "subtitle"),
			Field:   str(item, "field", "fieldOfStudy"),
			EndYear: str(item, "caption", "endYear"),
		})
	}

	return record
}

// profileSkills handles both plain string lists and object lists with a
// title field, which the actor emits depending on profile layout.
func profileSkills(raw map[string]any) []string {
	if skills := strList(raw, "skills"); len(skills) > 0 {
		return skills
	}
	return titlesOf(raw, "skills", "title", "name")
}

// stripHTML reduces an HTML fragment to its text content. Plain text passes
// through unchanged.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// str returns the first non-empty string value among keys, or "".
func str(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// strDefault is str with an explicit fallback value.
func strDefault(raw map[string]any, fallback string, keys ...string) string {
	if v := str(raw, keys...); v != "" {
		return v
	}
	return fallback
}

// num returns the first numeric value among keys as an int, or 0.
func num(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

// strList returns the first list-of-strings value among keys, or nil.
func strList(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, item := range items {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// objList returns the first list-of-objects value among keys, or nil.
func objList(raw map[string]any, keys ...string) []map[string]any {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		var out []map[string]any
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// titlesOf extracts a name-ish field from a list of objects.
func titlesOf(raw map[string]any, key string, fields ...string) []string {
	var out []string
	for _, item := range objList(raw, key) {
		if v := str(item, fields...); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func capStrings(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func lowered(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToLower(item)
	}
	return out
}

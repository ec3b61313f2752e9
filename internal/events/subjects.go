package events

const (
	SubjectStats = "compass.platform.stats"

	StreamName   = "COMPASS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectAssessmentCreated(id string) string       { return "compass.assessment." + id + ".created" }
func SubjectAssessmentScored(id string) string        { return "compass.assessment." + id + ".scored" }
func SubjectAssessmentSchemeChanged(id string) string { return "compass.assessment." + id + ".scheme_changed" }

func SubjectSchemeCreated(id string) string { return "compass.scheme." + id + ".created" }
func SubjectSchemeDeleted(id string) string { return "compass.scheme." + id + ".deleted" }
func SubjectSchemeDefault(id string) string { return "compass.scheme." + id + ".default" }

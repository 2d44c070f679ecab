package evaluation

const (
	PeriodYear  = "year"
	PeriodMonth = "month"
	PeriodWeek  = "week"

	DefaultMaxRawScore = 5

	MinWindowYear = 2000
	MaxWindowYear = 2100

	CommentSeparator = ", "

	dateLayout = "2006-01-02"
)

var periodAliases = map[string]string{
	"year":   PeriodYear,
	"anio":   PeriodYear,
	"año":    PeriodYear,
	"month":  PeriodMonth,
	"mes":    PeriodMonth,
	"week":   PeriodWeek,
	"semana": PeriodWeek,
}

// Package scoring implements the scholarship award formula: a weighted sum
// of WAEC grade points, guardian income bracket and JAMB score bracket,
// mapped to a discrete award percentage.
package scoring

// Award percentages the portal can grant.
const (
	TierNone = 0
	TierHalf = 50
	TierHigh = 75
	TierFull = 100
)

var gradePoints = map[string]int{
	"A1": 10,
	"B2": 8,
	"B3": 7,
	"C4": 5,
	"C5": 4,
	"C6": 3,
	"D7": 2,
	"E8": 1,
	"F9": 0,
}

// Breakdown details how an application's total was reached.
type Breakdown struct {
	GradePoints  int `json:"grade_points"`
	IncomePoints int `json:"income_points"`
	TestPoints   int `json:"test_points"`
	Total        int `json:"total"`
	Percentage   int `json:"percentage"`
}

// Evaluate computes the scholarship award for the given inputs. It is pure
// and total: unknown grade symbols contribute zero points rather than failing.
func Evaluate(grades map[string]string, guardianIncome float64, jambScore int) Breakdown {
	b := Breakdown{
		GradePoints:  sumGradePoints(grades),
		IncomePoints: incomePoints(guardianIncome),
		TestPoints:   testPoints(jambScore),
	}
	b.Total = b.GradePoints + b.IncomePoints + b.TestPoints
	b.Percentage = tier(b.Total)
	return b
}

// GradePointsFor returns the point value of a single grade symbol, zero for
// unknown symbols.
func GradePointsFor(symbol string) int {
	return gradePoints[symbol]
}

// ValidSymbol reports whether the grade symbol is one of the recognised
// A1..F9 values.
func ValidSymbol(symbol string) bool {
	_, ok := gradePoints[symbol]
	return ok
}

func sumGradePoints(grades map[string]string) int {
	total := 0
	for _, symbol := range grades {
		total += gradePoints[symbol]
	}
	return total
}

// Income brackets use inclusive upper bounds: an income exactly on a
// boundary falls into the lower bracket.
func incomePoints(income float64) int {
	switch {
	case income <= 300000:
		return 20
	case income <= 550000:
		return 15
	case income <= 850000:
		return 10
	default:
		return 5
	}
}

func testPoints(jambScore int) int {
	switch {
	case jambScore >= 300:
		return 30
	case jambScore >= 250:
		return 20
	case jambScore >= 200:
		return 10
	default:
		return 0
	}
}

func tier(total int) int {
	switch {
	case total >= 100:
		return TierFull
	case total >= 80:
		return TierHigh
	case total >= 60:
		return TierHalf
	default:
		return TierNone
	}
}

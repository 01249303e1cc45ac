package course

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Stats are the aggregates a course's derived values are computed from.
type Stats struct {
	Lessons     int `db:"total_lessons"`
	Duration    int `db:"total_duration"`
	Students    int `db:"students_count"`
	Reviews     int `db:"reviews_count"`
	RatingTotal int `db:"rating_total"`
}

func (s Stats) AverageRating() float64 {
	return averageRating(s.RatingTotal, s.Reviews)
}

// FinalPrice is price minus the discount percentage, rounded half-to-even to
// cents. The discount is clamped to [0, 100] so the result stays within
// [0, price].
func FinalPrice(price decimal.Decimal, discount int) decimal.Decimal {
	if discount < 0 {
		discount = 0
	}
	if discount > 100 {
		discount = 100
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(discount)).Div(hundred))
	return price.Mul(factor).RoundBank(2)
}

func TotalLessons(sections []SectionView) int {
	n := 0
	for _, s := range sections {
		n += len(s.Lessons)
	}
	return n
}

// TotalDuration is the summed length of every lesson, in minutes.
func TotalDuration(sections []SectionView) int {
	n := 0
	for _, s := range sections {
		for _, l := range s.Lessons {
			n += l.DurationMinutes
		}
	}
	return n
}

// AverageRating is the mean rating rounded to one place, 0 without ratings.
func AverageRating(ratings []int) float64 {
	total := 0
	for _, r := range ratings {
		total += r
	}
	return averageRating(total, len(ratings))
}

func averageRating(total, count int) float64 {
	if count == 0 {
		return 0
	}
	avg := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(count))).RoundBank(1)
	f, _ := avg.Float64()
	return f
}

func statsOf(sections []SectionView, reviews []ReviewView, students int) Stats {
	st := Stats{
		Lessons:  TotalLessons(sections),
		Duration: TotalDuration(sections),
		Students: students,
		Reviews:  len(reviews),
	}
	for _, r := range reviews {
		st.RatingTotal += r.Rating
	}
	return st
}

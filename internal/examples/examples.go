// Package examples holds the static library of high-scoring portfolio
// snippets shown on the examples screen.
package examples

// Example is one annotated snippet.
type Example struct {
	Tag      string
	Title    string
	Content  string
	Strength string
}

// All returns the library in display order.
func All() []Example {
	return []Example{
		{
			Tag:      "Iteration",
			Title:    "Testing Variable In-take Speeds",
			Content:  "We observed a 30% jam rate at 100% power. After 5 trials at 70% power, jams reduced to 5%. We finalized the code to cap motor speed at 75% for reliability.",
			Strength: `Uses specific metrics and explains the "Why" behind the decision.`,
		},
		{
			Tag:      "Outreach",
			Title:    "STEM Library Workshop",
			Content:  "Mentored 24 elementary students across 3 sessions. 90% of participants reported increased interest in robotics via post-session survey. Established recurring monthly dates.",
			Strength: `Shows impact and sustainability beyond just "attending an event".`,
		},
		{
			Tag:      "CAD",
			Title:    "Drivetrain Trade-offs",
			Content:  "Evaluated 4-wheel vs 6-wheel drop center. Chose 6-wheel for superior turning scrub compensation despite a 0.5lb weight penalty. Verified via CAD mass properties.",
			Strength: "Demonstrates engineering trade-offs and tool usage (CAD).",
		},
	}
}

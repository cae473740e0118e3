package inflector

// fuzzyThresholds lists the upper bound (inclusive) of each label, in
// ascending order. Anything above the last bound is "many".
var fuzzyThresholds = []struct {
	max   int
	label string
}{
	{0, "no"},
	{1, "one"},
	{3, "a couple of"},
	{7, "a few"},
	{9, "several"},
}

const fuzzyMany = "many"

// FuzzyCount describes count as a rough quantity, e.g. "a few".
func FuzzyCount(count int) (string, error) {
	if err := ValidateCount(count); err != nil {
		return "", err
	}
	for _, t := range fuzzyThresholds {
		if count <= t.max {
			return t.label, nil
		}
	}
	return fuzzyMany, nil
}

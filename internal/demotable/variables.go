package demotable

// Kind selects how a variable is summarized
type Kind int

const (
	// Continuous variables report mean (sd) over non-missing values
	Continuous Kind = iota
	// Categorical variables report count (pct%) per enumerated code
	Categorical
	// Indicator variables are families of 0/1 columns named
	// <column>___<code>, one count (pct%) row per member
	Indicator
)

// Category maps one numeric survey code to its human-readable label
type Category struct {
	Code  int
	Label string
}

// VarSpec describes one variable of the demographic summary table. For
// Indicator kind, Column is the family prefix and each category code
// addresses the column <Column>___<Code>.
type VarSpec struct {
	Column     string
	Label      string
	Kind       Kind
	Categories []Category
}

// DefaultVariables returns the standard demographic table layout. The
// enumerated categories fix the row set, so every group column reports the
// same rows whether or not a category occurs in the group.
func DefaultVariables() []VarSpec {
	return []VarSpec{
		{Column: "age1", Label: "Age", Kind: Continuous},
		{Column: "ethnicity", Label: "Ethnicity", Kind: Indicator, Categories: []Category{
			{Code: 1, Label: "Hispanic"},
			{Code: 2, Label: "not Hispanic"},
			{Code: 3, Label: "prefer not to say (ethnicity)"},
		}},
		{Column: "race1", Label: "Race", Kind: Indicator, Categories: []Category{
			{Code: 1, Label: "African American"},
			{Code: 2, Label: "Asian"},
			{Code: 3, Label: "White"},
			{Code: 4, Label: "Hispanic/Latinx"},
			{Code: 5, Label: "Native Hawaiian or other Pacific Islander"},
			{Code: 6, Label: "American Indian/Alaska Native"},
			{Code: 7, Label: "more than one race/prefer to self-describe"},
			{Code: 8, Label: "unknown"},
			{Code: 9, Label: "prefer not to say (race)"},
		}},
		{Column: "preferred_gender", Label: "Gender", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "female"},
			{Code: 2, Label: "male"},
			{Code: 3, Label: "non-binary/third gender"},
			{Code: 4, Label: "prefer to self-describe"},
			{Code: 5, Label: "prefer not to say"},
		}},
		{Column: "bio_sex", Label: "Biological Sex", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "female"},
			{Code: 2, Label: "male"},
		}},
		{Column: "transgender2", Label: "Gender Identity", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "transgender"},
			{Code: 2, Label: "cisgender"},
			{Code: 3, Label: "prefer not to say"},
		}},
		{Column: "sexual_orientation", Label: "Sexual Orientation", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "gay/lesbian"},
			{Code: 2, Label: "bisexual"},
			{Code: 3, Label: "straight/heterosexual"},
			{Code: 4, Label: "prefer to self-describe"},
			{Code: 5, Label: "prefer not to say"},
		}},
		{Column: "education", Label: "Education", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "some high school"},
			{Code: 2, Label: "high school diploma or GED"},
			{Code: 3, Label: "some college"},
			{Code: 4, Label: "bachelor's degree"},
			{Code: 5, Label: "some post-bachelor"},
			{Code: 6, Label: "graduate, medical, or professional degree"},
		}},
		{Column: "marital", Label: "Relationship Status", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "single"},
			{Code: 2, Label: "in a relationship"},
			{Code: 3, Label: "married"},
			{Code: 4, Label: "separated/divorced"},
			{Code: 5, Label: "widowed"},
		}},
		{Column: "medical", Label: "Serious medical problems?", Kind: Categorical, Categories: []Category{
			{Code: 0, Label: "no"},
			{Code: 1, Label: "yes"},
		}},
		{Column: "income", Label: "Income", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "$0 - 25,000"},
			{Code: 2, Label: "$25,001 - 50,000"},
			{Code: 3, Label: "$50,001 - 75,000"},
			{Code: 4, Label: "$75,001 - 100,000"},
			{Code: 5, Label: "$100,001 - 150,000"},
			{Code: 6, Label: "$150,001 - 250,000"},
			{Code: 7, Label: "$250,000+"},
		}},
		{Column: "student", Label: "Full-time student?", Kind: Categorical, Categories: []Category{
			{Code: 0, Label: "no"},
			{Code: 1, Label: "yes"},
		}},
		{Column: "employed", Label: "Currently employed?", Kind: Categorical, Categories: []Category{
			{Code: 0, Label: "no"},
			{Code: 1, Label: "yes"},
		}},
		{Column: "political", Label: "Political Ideology", Kind: Categorical, Categories: []Category{
			{Code: 1, Label: "very liberal"},
			{Code: 2, Label: "liberal"},
			{Code: 3, Label: "slightly liberal"},
			{Code: 4, Label: "moderate"},
			{Code: 5, Label: "slightly conservative"},
			{Code: 6, Label: "conservative"},
			{Code: 7, Label: "very conservative"},
		}},
	}
}

package relabel

func yesNo() []CodeLabel {
	return []CodeLabel{
		{Code: 1, Label: "yes"},
		{Code: 0, Label: "no"},
	}
}

// DemographicRelabels returns the mapping table for the demographics
// export. Indicator columns (race1___N, ethnicity___N, disability___N)
// hold 0/1 flags and are only renamed; age1 likewise.
func DemographicRelabels() []ColumnRelabel {
	return []ColumnRelabel{
		{Column: "age1", NewName: "age"},
		{Column: "bio_sex", Labels: []CodeLabel{
			{Code: 1, Label: "female"},
			{Code: 2, Label: "male"},
		}},
		{Column: "preferred_gender", Labels: []CodeLabel{
			{Code: 1, Label: "female"},
			{Code: 2, Label: "male"},
			{Code: 3, Label: "non-binary/third gender"},
			{Code: 4, Label: "prefer to self-describe"},
			{Code: 5, Label: "prefer not to say"},
		}},
		{Column: "transgender2", NewName: "transgender", Labels: []CodeLabel{
			{Code: 1, Label: "yes"},
			{Code: 2, Label: "no"},
			{Code: 3, Label: "prefer not to say"},
		}},
		{Column: "sexual_orientation", Labels: []CodeLabel{
			{Code: 1, Label: "gay/lesbian"},
			{Code: 2, Label: "bisexual"},
			{Code: 3, Label: "straight/heterosexual"},
			{Code: 4, Label: "prefer to self-describe"},
			{Code: 5, Label: "prefer not to say"},
		}},
		{Column: "race1___1", NewName: "African American"},
		{Column: "race1___2", NewName: "Asian"},
		{Column: "race1___3", NewName: "White"},
		{Column: "race1___4", NewName: "Hispanic/Latinx"},
		{Column: "race1___5", NewName: "Native Hawaiian or other Pacific Islander"},
		{Column: "race1___6", NewName: "American Indian/Alaska Native"},
		{Column: "race1___7", NewName: "more than one race/prefer to self-describe"},
		{Column: "race1___8", NewName: "unknown"},
		{Column: "race1___9", NewName: "prefer not to say (race)"},
		{Column: "ethnicity___1", NewName: "Hispanic"},
		{Column: "ethnicity___2", NewName: "not Hispanic"},
		{Column: "ethnicity___3", NewName: "prefer not to say (ethnicity)"},
		{Column: "disability___1", NewName: "sensory impairment (vision/hearing)"},
		{Column: "disability___2", NewName: "mobility impairment"},
		{Column: "disability___3", NewName: "learning disability"},
		{Column: "disability___4", NewName: "mental health disorder"},
		{Column: "disability___5", NewName: "disability or impairment not listed above"},
		{Column: "disability___6", NewName: "prefer not to say (disability)"},
		{Column: "military", Labels: []CodeLabel{
			{Code: 1, Label: "civilian"},
			{Code: 2, Label: "active military"},
			{Code: 3, Label: "veteran"},
		}},
		{Column: "marital", Labels: []CodeLabel{
			{Code: 1, Label: "single"},
			{Code: 2, Label: "in a relationship"},
			{Code: 3, Label: "married"},
			{Code: 4, Label: "separated/divorced"},
			{Code: 5, Label: "widowed"},
		}},
		{Column: "medical", Labels: yesNo()},
		{Column: "income", Labels: []CodeLabel{
			{Code: 1, Label: "$0-$25,000"},
			{Code: 2, Label: "$25,001-$50,000"},
			{Code: 3, Label: "$50,001 - $75,000"},
			{Code: 4, Label: "$75,001 - $100,000"},
			{Code: 5, Label: "$100,001 - $150,000"},
			{Code: 6, Label: "$150,001 - $250,000"},
			{Code: 7, Label: "$250,000+"},
		}},
		{Column: "education", Labels: []CodeLabel{
			{Code: 1, Label: "some high school"},
			{Code: 2, Label: "high school diploma or GED"},
			{Code: 3, Label: "some college"},
			{Code: 4, Label: "college degree"},
			{Code: 5, Label: "some post-bacc education"},
			{Code: 6, Label: "graduate, medical, or professional degree"},
		}},
		{Column: "student", Labels: yesNo()},
		{Column: "employed", Labels: yesNo()},
		{Column: "working_home", Labels: []CodeLabel{
			{Code: 1, Label: "no"},
			{Code: 2, Label: "part-time"},
			{Code: 3, Label: "full-time"},
		}},
		{Column: "employment_covid", Labels: yesNo()},
		{Column: "institution_measures", Labels: yesNo()},
		{Column: "normal_units", Labels: []CodeLabel{
			{Code: 1, Label: "days"},
			{Code: 2, Label: "weeks"},
			{Code: 3, Label: "months"},
		}},
	}
}

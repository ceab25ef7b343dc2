package campus

import (
	"testing"

	"icassist/lib/platforms/infinitecampus"

	"github.com/google/go-cmp/cmp"
	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func str(s string) *string {
	return &s
}

func num(f float64) *float64 {
	return &f
}

func flexString(s string) infinitecampus.FlexString {
	return infinitecampus.NewFlexString(s)
}

func flexFloat(f float64) infinitecampus.FlexFloat {
	return infinitecampus.NewFlexFloat(f)
}

func randomString(t *testing.T, n int) string {
	s, err := random.String(n)
	require.NoError(t, err)
	return s
}

func TestNormalizeGrade(t *testing.T) {
	cases := []struct {
		name     string
		input    infinitecampus.RawGradingTask
		expected Grade
	}{
		{
			name: "progress fields win",
			input: infinitecampus.RawGradingTask{
				TaskName:             "Quarter Grade",
				ProgressScore:        flexString("A-"),
				ProgressPercentage:   flexFloat(91.2),
				ProgressPointsEarned: flexFloat(456),
				ProgressTotalPoints:  flexFloat(500),
				Score:                flexString("B+"),
				Percent:              flexFloat(88),
				PointsEarned:         flexFloat(440),
				TotalPoints:          flexFloat(500),
			},
			expected: Grade{
				Name: "Quarter Grade",
				Score: &Score{
					Name:       str("A-"),
					Percentage: num(91.2),
					Points:     num(456),
					MaxPoints:  num(500),
				},
			},
		},
		{
			name: "plain fields when progress is absent",
			input: infinitecampus.RawGradingTask{
				TaskName:     "Semester Final",
				Score:        flexString("B"),
				Percentage:   flexFloat(84.5),
				PointsEarned: flexFloat(169),
				TotalPoints:  flexFloat(200),
			},
			expected: Grade{
				Name: "Semester Final",
				Score: &Score{
					Name:       str("B"),
					Percentage: num(84.5),
					Points:     num(169),
					MaxPoints:  num(200),
				},
			},
		},
		{
			name: "derived percentage",
			input: infinitecampus.RawGradingTask{
				TaskName:            "Quarter Grade",
				Score:               flexString("85"),
				ProgressTotalPoints: flexFloat(100),
			},
			expected: Grade{
				Name: "Quarter Grade",
				Score: &Score{
					Name:       str("85"),
					Percentage: num(85),
					MaxPoints:  num(100),
				},
			},
		},
		{
			name: "letter grade is not coerced",
			input: infinitecampus.RawGradingTask{
				TaskName:    "Quarter Grade",
				Score:       flexString("A"),
				TotalPoints: flexFloat(100),
			},
			expected: Grade{
				Name:  "Quarter Grade",
				Score: &Score{Name: str("A"), MaxPoints: num(100)},
			},
		},
		{
			name: "zero is a grade",
			input: infinitecampus.RawGradingTask{
				TaskName:     "Quiz",
				Score:        flexString("0"),
				PointsEarned: flexFloat(0),
				TotalPoints:  flexFloat(10),
			},
			expected: Grade{
				Name: "Quiz",
				Score: &Score{
					Name:       str("0"),
					Percentage: num(0),
					Points:     num(0),
					MaxPoints:  num(10),
				},
			},
		},
		{
			name: "zero max points derives nothing",
			input: infinitecampus.RawGradingTask{
				TaskName:    "Extra Credit",
				Score:       flexString("5"),
				TotalPoints: flexFloat(0),
			},
			expected: Grade{
				Name:  "Extra Credit",
				Score: &Score{Name: str("5"), MaxPoints: num(0)},
			},
		},
		{
			name:     "no score data",
			input:    infinitecampus.RawGradingTask{TaskName: "Semester Final"},
			expected: Grade{Name: "Semester Final"},
		},
		{
			name: "empty score label is absent",
			input: infinitecampus.RawGradingTask{
				TaskName:      "Progress",
				ProgressScore: flexString(""),
				Score:         flexString(" "),
			},
			expected: Grade{Name: "Progress"},
		},
		{
			name:     "empty comments are kept",
			input:    infinitecampus.RawGradingTask{TaskName: "Quarter Grade", Comments: str("")},
			expected: Grade{Name: "Quarter Grade", Comments: str("")},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			diff := cmp.Diff(test.expected, NormalizeGrade(test.input))
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestGradeProgressPrecedence(t *testing.T) {
	for i := 0; i < 50; i++ {
		progress := randomString(t, 3)
		plain := randomString(t, 4)
		input := infinitecampus.RawGradingTask{
			TaskName:           randomString(t, 12),
			ProgressScore:      flexString(progress),
			Score:              flexString(plain),
			ProgressPercentage: flexFloat(float64(i)),
			Percentage:         flexFloat(float64(100 - i)),
		}

		grade := NormalizeGrade(input)
		require.Equal(t, input.TaskName, grade.Name)
		require.NotNil(t, grade.Score)
		require.Equal(t, progress, *grade.Score.Name)
		require.Equal(t, float64(i), *grade.Score.Percentage)
	}
}

func TestGradeScoreAllOrNothing(t *testing.T) {
	for i := 0; i < 50; i++ {
		input := infinitecampus.RawGradingTask{
			TaskName: randomString(t, 10),
			TaskID:   flexString(randomString(t, 6)),
			TermID:   flexString(randomString(t, 3)),
		}
		if i%2 == 0 {
			input.Comments = str(randomString(t, 20))
		}

		grade := NormalizeGrade(input)
		require.Nil(t, grade.Score)
		if i%2 == 0 {
			require.Equal(t, *input.Comments, *grade.Comments)
		} else {
			require.Nil(t, grade.Comments)
		}
	}
}

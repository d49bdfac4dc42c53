package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--catalog", "../../config/specialists.json",
		"--matches", "../../config/condition_matches.json",
		"--geocoder", "static",
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCmd_Proximity(t *testing.T) {
	out, err := runCLI(t, "search", "--location", "80220", "--radius", "20")
	require.NoError(t, err)

	assert.Contains(t, out, "Near 39.7312, -104.9126")
	assert.Contains(t, out, "Dr. Lena Petrova, MD")
	assert.Contains(t, out, "3 result(s)")
	assert.Less(t, strings.Index(out, "Petrova"), strings.Index(out, "Hale"))
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, err := runCLI(t, "search", "dermatology")
	require.NoError(t, err)
	assert.Contains(t, out, "No specialists found.")
}

func TestGeocodeCmd(t *testing.T) {
	out, err := runCLI(t, "geocode", "80220")
	require.NoError(t, err)
	assert.Equal(t, "80220\t39.7312\t-104.9126\n", out)

	_, err = runCLI(t, "geocode", "denver")
	assert.Error(t, err)
}

type scriptedReader struct {
	lines   []string
	choices []string
}

func (s *scriptedReader) Line(string) (string, error) {
	if len(s.lines) == 0 {
		return "", promptui.ErrEOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) Choose(string, []string) (string, error) {
	if len(s.choices) == 0 {
		return "", promptui.ErrInterrupt
	}
	choice := s.choices[0]
	s.choices = s.choices[1:]
	return choice, nil
}

func TestRunIntake_CompletesCaseAndShowsMatches(t *testing.T) {
	matches, err := services.LoadMatchCatalog("../../config/condition_matches.json")
	require.NoError(t, err)
	intake := services.NewReferralIntakeService(services.NewFieldExtractor(), matches, services.NewRankingEngine())

	in := &scriptedReader{
		lines:   []string{"Patient with cystic fibrosis, urgent, Blue Cross insurance", "", "She lives in Boston, MA"},
		choices: []string{promptShowMatches, promptQuit},
	}
	var out bytes.Buffer
	require.NoError(t, runIntake(&out, intake, in))

	text := out.String()
	assert.Contains(t, text, "- patient location")
	assert.Contains(t, text, "I have all the information needed to find matching specialists.")
	assert.Contains(t, text, "Dr. Lena Petrova, MD")
	assert.Less(t, strings.Index(text, "Petrova"), strings.Index(text, "Khan"))
	assert.Empty(t, in.lines)
}

func TestRunIntake_StartOverClearsCase(t *testing.T) {
	matches, err := services.LoadMatchCatalog("../../config/condition_matches.json")
	require.NoError(t, err)
	intake := services.NewReferralIntakeService(services.NewFieldExtractor(), matches, services.NewRankingEngine())

	in := &scriptedReader{
		lines:   []string{"Patient with cystic fibrosis, urgent, Blue Cross insurance, Boston, MA", "Parkinson's"},
		choices: []string{promptStartOver},
	}
	var out bytes.Buffer
	require.NoError(t, runIntake(&out, intake, in))

	assert.Contains(t, out.String(), "Starting a new case.")
	assert.Contains(t, out.String(), "identified the condition as Parkinson's Disease")
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

const (
	promptShowMatches = "Show matching specialists"
	promptAddDetails  = "Add more details"
	promptStartOver   = "Start over"
	promptQuit        = "Quit"
)

func newIntakeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "intake",
		Short: "Describe a patient case in plain language and get matched specialists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(v)
			if err != nil {
				return err
			}
			return runIntake(cmd.OutOrStdout(), e.intake, promptReader{})
		},
	}
}

// lineReader supplies the next user utterance and the next menu choice.
type lineReader interface {
	Line(label string) (string, error)
	Choose(label string, items []string) (string, error)
}

type promptReader struct{}

func (promptReader) Line(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	return p.Run()
}

func (promptReader) Choose(label string, items []string) (string, error) {
	s := promptui.Select{Label: label, Items: items}
	_, choice, err := s.Run()
	return choice, err
}

var errQuit = errors.New("quit requested")

func runIntake(w io.Writer, intake *services.ReferralIntakeService, in lineReader) error {
	fmt.Fprintln(w, "Describe the patient: condition, urgency, insurance and location.")

	var current entities.ExtractedCase
	for {
		utterance, err := in.Line("Case")
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(utterance) == "" {
			continue
		}

		turn := intake.Next(utterance, current)
		current = turn.Case
		fmt.Fprintln(w, turn.Reply)

		if !turn.Complete {
			continue
		}

		current, err = afterComplete(w, intake, in, current)
		if errors.Is(err, errQuit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func afterComplete(w io.Writer, intake *services.ReferralIntakeService, in lineReader, current entities.ExtractedCase) (entities.ExtractedCase, error) {
	for {
		choice, err := in.Choose("Case complete", []string{promptShowMatches, promptAddDetails, promptStartOver, promptQuit})
		if err != nil {
			return current, err
		}

		switch choice {
		case promptShowMatches:
			printMatches(w, intake.FindMatches(current))
		case promptAddDetails:
			return current, nil
		case promptStartOver:
			fmt.Fprintln(w, "Starting a new case.")
			return entities.ExtractedCase{}, nil
		default:
			return current, errQuit
		}
	}
}

func printMatches(w io.Writer, matches []*entities.Specialist) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No specialists match this case.")
		return
	}
	for _, s := range matches {
		fmt.Fprintf(w, "%3d  %-28s %s, %s\n", s.MatchScore, s.Name, s.Institution, s.Location)
		for _, reason := range s.MatchReasons {
			fmt.Fprintf(w, "       - %s\n", reason)
		}
	}
}

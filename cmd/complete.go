package cmd

import (
	"flag"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/impexp"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func names[T ~string](values []T) predict.Set {
	s := make(predict.Set, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return s
}

// flagValues predicts the values of flags with a fixed set of values.
var flagValues = map[string]complete.Predictor{
	"format":   names(impexp.Formats),
	"range":    names([]date.Since{date.All, date.CurrentMonth, date.LastMonth, date.CurrentYear, date.LastYear}),
	"period":   names([]string{"day", "week", "month", "quarter", "year"}),
	"mode":     names([]mm.ImportMode{mm.MergeMode, mm.ReplaceMode}),
	"array":    names(mm.Collections),
	"priority": names([]mm.Priority{mm.High, mm.Medium, mm.Low}),
	"color":    predict.Nothing,
}

// typeValues predicts the -type flag, whose meaning depends on the command.
var typeValues = map[string]complete.Predictor{
	"export":       names(impexp.DataTypes),
	"add-account":  names([]mm.AccountType{mm.Checking, mm.Savings, mm.Credit, mm.Investment}),
	"edit-account": names([]mm.AccountType{mm.Checking, mm.Savings, mm.Credit, mm.Investment}),
}

var transactionTypes = names([]mm.TransactionType{mm.Income, mm.Expense, mm.Transfer})

type boolFlag interface{ IsBoolFlag() bool }

// Completion returns the shell completion of the mm command line, derived
// from the flags of the global flag set and of each subcommand.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command, len(Commands)),
		Flags: flagPredictors("", flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(c.Name(), f)}
		if c.Name() == "import" {
			sub.Args = predict.Files("*")
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func flagPredictors(command string, f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(boolFlag); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		switch {
		case fl.Name == "type":
			if p, ok := typeValues[command]; ok {
				flags[fl.Name] = p
			} else {
				flags[fl.Name] = transactionTypes
			}
		case fl.Name == "o":
			flags[fl.Name] = predict.Files("*")
		case fl.Name == "store":
			flags[fl.Name] = predict.Dirs("*")
		case flagValues[fl.Name] != nil:
			flags[fl.Name] = flagValues[fl.Name]
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

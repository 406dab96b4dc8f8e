package main

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/clingy"

	"github.com/inbtp/appariteur/pkg/student"
)

func stringFlag(params clingy.Parameters, name, desc, def string) string {
	return params.Flag(name, desc, def).(string)
}

func toggleFlag(params clingy.Parameters, name, desc string, def bool) bool {
	return params.Flag(name, desc, def, clingy.Transform(strconv.ParseBool), clingy.Boolean).(bool)
}

func dateFlag(params clingy.Parameters, name, desc string) time.Time {
	return params.Flag(name, desc, time.Time{}, clingy.Transform(parseDisplayDate)).(time.Time)
}

func stringArg(params clingy.Parameters, name, desc string) string {
	return params.Arg(name, desc).(string)
}

func optStringArg(params clingy.Parameters, name, desc string) string {
	if v := params.Arg(name, desc, clingy.Optional).(*string); v != nil {
		return *v
	}
	return ""
}

func decimalArg(params clingy.Parameters, name, desc string) decimal.Decimal {
	return params.Arg(name, desc, clingy.Transform(decimal.NewFromString)).(decimal.Decimal)
}

func parseDisplayDate(s string) (time.Time, error) {
	return time.Parse(student.DisplayDateLayout, s)
}

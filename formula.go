// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// evalResult is an evaluated formula argument or return value: either a
// float, a string, or a propagated spreadsheet error code.
type evalResult struct {
	num    float64
	str    string
	isStr  bool
	errStr string
}

func numResult(n float64) evalResult { return evalResult{num: n} }
func strResult(s string) evalResult  { return evalResult{str: s, isStr: true} }
func errResult(code string) evalResult { return evalResult{errStr: code} }

func (r evalResult) isErr() bool { return r.errStr != "" }

// EvalFormula tokenizes expr with efp and evaluates it as a single function
// call from the engineering/complex-number subset (§4.9). Cell references
// are not resolved here: functions in this subset take literal numeric or
// string arguments, not ranges.
func EvalFormula(expr string) (string, error) {
	expr = strings.TrimPrefix(expr, "=")
	ps := efp.ExcelParser()
	tokens := ps.Parse(expr)
	if len(tokens) == 0 {
		return "", wrapf(ErrInvalidArgument, "empty formula")
	}
	name, args, err := parseSingleCall(tokens)
	if err != nil {
		return "", err
	}
	res, err := callEngineeringFunc(name, args)
	if err != nil {
		return "", err
	}
	if res.isErr() {
		return res.errStr, nil
	}
	if res.isStr {
		return res.str, nil
	}
	return formatGeneral(res.num), nil
}

// parseSingleCall extracts a top-level FUNCTION token's name and its
// comma-separated argument text spans from an efp token stream.
func parseSingleCall(tokens []efp.Token) (name string, args []string, err error) {
	if tokens[0].TType != efp.TokenTypeFunction || tokens[0].TSubType != efp.TokenSubTypeStart {
		return "", nil, wrapf(ErrInvalidArgument, "expected a function call")
	}
	name = strings.ToUpper(tokens[0].TValue)
	depth := 0
	var cur strings.Builder
	for _, t := range tokens[1:] {
		if t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop {
			if depth == 0 {
				args = append(args, strings.TrimSpace(cur.String()))
				return name, args, nil
			}
			depth--
			cur.WriteString(t.TValue)
			continue
		}
		if t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart {
			depth++
		}
		if t.TType == efp.TokenTypeArgument {
			if depth == 0 {
				args = append(args, strings.TrimSpace(cur.String()))
				cur.Reset()
				continue
			}
		}
		if t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText {
			cur.WriteString(`"` + t.TValue + `"`)
			continue
		}
		cur.WriteString(t.TValue)
	}
	return "", nil, wrapf(ErrInvalidArgument, "unterminated function call")
}

func parseArgNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, wrapf(ErrInvalidArgument, "expected a number, got %q", s)
	}
	return n, nil
}

func parseArgStr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func callEngineeringFunc(name string, args []string) (evalResult, error) {
	switch name {
	case "BIN2DEC", "OCT2DEC", "HEX2DEC":
		return baseToDecimal(name, args)
	case "DEC2BIN", "DEC2OCT", "DEC2HEX":
		return decimalToBase(name, args)
	case "BIN2HEX", "BIN2OCT", "OCT2BIN", "OCT2HEX", "HEX2BIN", "HEX2OCT":
		return baseToBase(name, args)
	case "DELTA":
		return fnDelta(args)
	case "GESTEP":
		return fnGestep(args)
	case "ERF":
		return fnErf(args)
	case "ERFC":
		return fnErfc(args)
	case "COMPLEX":
		return fnComplex(args)
	case "IMREAL":
		return imPart(args, false)
	case "IMAGINARY":
		return imPart(args, true)
	case "IMABS":
		return fnImabs(args)
	case "IMARGUMENT":
		return fnImargument(args)
	case "IMCONJUGATE":
		return fnImconjugate(args)
	case "IMSUM":
		return imReduce(args, complexAdd)
	case "IMSUB":
		return imReduce(args, complexSub)
	case "IMPRODUCT":
		return imReduce(args, complexMul)
	case "IMDIV":
		return fnImdiv(args)
	case "IMPOWER":
		return fnImpower(args)
	case "IMSQRT":
		return fnImsqrt(args)
	case "CONVERT":
		return fnConvert(args)
	case "BESSELI":
		return fnBessel(args, besselI)
	case "BESSELJ":
		return fnBessel(args, besselJ)
	case "BESSELY":
		return fnBessel(args, besselY)
	case "BESSELK":
		return fnBessel(args, besselK)
	}
	return evalResult{}, wrapf(ErrInvalidArgument, "unsupported function %q", name)
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

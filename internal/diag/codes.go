package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Structural validation
	IRInfo               Code = 1000
	IRUnterminatedBlock  Code = 1001
	IRBadOperand         Code = 1002
	IRDefUseMismatch     Code = 1003
	IRBadRegion          Code = 1004
	IRVisibility         Code = 1005

	// Rewrite rule match failures (declined, not fatal)
	RuleInfo               Code = 2000
	RuleNoMatch            Code = 2001
	RuleNotInConvertedFunc Code = 2002
	RuleNoChainResult      Code = 2003
	RuleNoTokenOperand     Code = 2004
	RuleNothingToWrap      Code = 2005
	RuleNotUnwrappable     Code = 2006
	RuleNoReturnTerminator Code = 2007

	// Attempt failures (whole-function rollback)
	AttemptInfo          Code = 3000
	AttemptNoProgress    Code = 3001
	AttemptHasResults    Code = 3002
	AttemptTokenConflict Code = 3003
	AttemptBadOperand    Code = 3004
)

func (c Code) String() string {
	return fmt.Sprintf("S%04d", uint16(c))
}

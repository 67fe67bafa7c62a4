package console

import (
	"github.com/ezrec/pemu/translate"
)

var f = translate.From

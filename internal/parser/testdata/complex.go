package testdata

// Two formats in one file, plus the awkward cases: several marker methods,
// a manual index, untagged and foreign-tagged fields, a record declared
// before its format.

// @record format=Outbound tag="9"
type Ack struct {
	Code string `fixed:"start=1,len=3"`
}

// @fixedformat
type Inbound interface {
	isInbound()
	sealed()
}

// @record format=Inbound tag="01"
type Open struct {
	Account string `fixed:"start=2,len=8" json:"account"`
	display string
	Amount  int64  `fixed:"len=12"`
}

// @record format=Inbound tag="02" index=7
type Close struct {
	Account string `fixed:"start=2,len=8"`
}

// @fixedformat
type Outbound interface {
	isOutbound()
}

package testdata

// @fixedformat
type Transmission interface {
	sealedTransmission()
}

// @record format=Transmission tag="HD"
type Header struct {
	Name string `fixed:"start=2,len=10"`
	Age  uint8  `fixed:"len=3"`
}

// @record format=Transmission tag="DT"
type Data struct {
	Payload  string `fixed:"start=2,end=8"`
	Checksum uint16 `fixed:"len=4"`
}

// No annotation - should be skipped
type IgnoredType struct {
	Field uint32 `fixed:"len=4"`
}

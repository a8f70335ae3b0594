package example

//go:generate go run github.com/lilopkins/fixedrec/cmd/fixedrecgen -out transmission_gen.go transmission.go

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

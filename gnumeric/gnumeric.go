package gnumeric

import (
	"encoding/xml"
)

const (
	nsGnumeric = "http://www.gnumeric.org/v10.dtd"
	nsSchema   = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLoc  = "http://www.gnumeric.org/v9.xsd"
)

const visibleSheet = "GNM_SHEET_VISIBILITY_VISIBLE"

// value types of a cell as stored in the ValueType attribute
const (
	typeEmpty  = 10
	typeBool   = 20
	typeInt    = 30
	typeFloat  = 40
	typeError  = 50
	typeString = 60
)

type xmlWorkbook struct {
	XMLName   xml.Name       `xml:"gnm:Workbook"`
	Xmlns     string         `xml:"xmlns:gnm,attr"`
	XmlnsXsi  string         `xml:"xmlns:xsi,attr"`
	SchemaLoc string         `xml:"xsi:schemaLocation,attr"`
	Version   xmlVersion     `xml:"gnm:Version"`
	Names     []xmlSheetName `xml:"gnm:SheetNameIndex>gnm:SheetName"`
	Sheets    []xmlSheet     `xml:"gnm:Sheets>gnm:Sheet"`
	UI        xmlUIData      `xml:"gnm:UIData"`
}

type xmlVersion struct {
	Epoch int    `xml:"Epoch,attr"`
	Major int    `xml:"Major,attr"`
	Minor int    `xml:"Minor,attr"`
	Full  string `xml:"Full,attr"`
}

type xmlSheetName struct {
	Cols int    `xml:"gnm:Cols,attr"`
	Rows int    `xml:"gnm:Rows,attr"`
	Name string `xml:",chardata"`
}

type xmlSheet struct {
	Visibility string    `xml:"Visibility,attr"`
	Name       string    `xml:"gnm:Name"`
	MaxCol     int64     `xml:"gnm:MaxCol"`
	MaxRow     int64     `xml:"gnm:MaxRow"`
	Cells      []xmlCell `xml:"gnm:Cells>gnm:Cell"`
}

type xmlCell struct {
	Row       int64  `xml:"Row,attr"`
	Col       int64  `xml:"Col,attr"`
	ValueType int    `xml:"ValueType,attr,omitempty"`
	ExprID    int    `xml:"ExprID,attr,omitempty"`
	Text      string `xml:",chardata"`
}

type xmlUIData struct {
	SelectedTab int `xml:"SelectedTab,attr"`
}

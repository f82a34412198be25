package schematic

import "encoding/xml"

// XML shape of the parts of an Eagle .sch file this package reads

type eagleFile struct {
	XMLName xml.Name       `xml:"eagle"`
	Sheet   eagleSchematic `xml:"drawing>schematic"`
}

type eagleSchematic struct {
	Attributes []eagleAttribute `xml:"attributes>attribute"`
	Libraries  []eagleLibrary   `xml:"libraries>library"`
	Parts      []eaglePart      `xml:"parts>part"`
}

type eagleLibrary struct {
	Name       string           `xml:"name,attr"`
	DeviceSets []eagleDeviceSet `xml:"devicesets>deviceset"`
}

type eagleDeviceSet struct {
	Name    string        `xml:"name,attr"`
	Devices []eagleDevice `xml:"devices>device"`
}

type eagleDevice struct {
	Name         string            `xml:"name,attr"`
	Technologies []eagleTechnology `xml:"technologies>technology"`
}

type eagleTechnology struct {
	Name       string           `xml:"name,attr"`
	Attributes []eagleAttribute `xml:"attribute"`
}

type eagleAttribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type eaglePart struct {
	Name       string         `xml:"name,attr"`
	Library    string         `xml:"library,attr"`
	DeviceSet  string         `xml:"deviceset,attr"`
	Device     string         `xml:"device,attr"`
	Technology string         `xml:"technology,attr"`
	Variants   []eagleVariant `xml:"variant"`
}

type eagleVariant struct {
	Name     string `xml:"name,attr"`
	Populate string `xml:"populate,attr"`
}

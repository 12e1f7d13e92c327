package decoder

import "encoding/xml"

// Typed view of a CAP document. Optional elements are pointers so presence
// can be told apart from an empty value. Tags carry no namespace, so CAP 1.0,
// 1.1 and 1.2 documents all bind.

type xmlAlert struct {
	XMLName     xml.Name
	Identifier  *string   `xml:"identifier"`
	Sender      *string   `xml:"sender"`
	Sent        *string   `xml:"sent"`
	Status      *string   `xml:"status"`
	MsgType     *string   `xml:"msgType"`
	Source      *string   `xml:"source"`
	Scope       *string   `xml:"scope"`
	Restriction *string   `xml:"restriction"`
	Addresses   *string   `xml:"addresses"`
	Codes       []string  `xml:"code"`
	Note        *string   `xml:"note"`
	References  *string   `xml:"references"`
	Incidents   *string   `xml:"incidents"`
	Infos       []xmlInfo `xml:"info"`
}

type xmlInfo struct {
	Language      *string       `xml:"language"`
	Categories    []string      `xml:"category"`
	Event         *string       `xml:"event"`
	ResponseTypes []string      `xml:"responseType"`
	Urgency       *string       `xml:"urgency"`
	Severity      *string       `xml:"severity"`
	Certainty     *string       `xml:"certainty"`
	Audience      *string       `xml:"audience"`
	EventCodes    []xmlKeyValue `xml:"eventCode"`
	Effective     *string       `xml:"effective"`
	Onset         *string       `xml:"onset"`
	Expires       *string       `xml:"expires"`
	SenderName    *string       `xml:"senderName"`
	Headline      *string       `xml:"headline"`
	Description   *string       `xml:"description"`
	Instruction   *string       `xml:"instruction"`
	Web           *string       `xml:"web"`
	Contact       *string       `xml:"contact"`
	Parameters    []xmlKeyValue `xml:"parameter"`
	Resources     []xmlResource `xml:"resource"`
	Areas         []xmlArea     `xml:"area"`
}

type xmlKeyValue struct {
	ValueName *string `xml:"valueName"`
	Value     *string `xml:"value"`
}

type xmlResource struct {
	Desc     *string `xml:"resourceDesc"`
	MimeType *string `xml:"mimeType"`
	Size     *string `xml:"size"`
	URI      *string `xml:"uri"`
	DerefURI *string `xml:"derefUri"`
	Digest   *string `xml:"digest"`
}

type xmlArea struct {
	Desc     *string       `xml:"areaDesc"`
	Polygons []string      `xml:"polygon"`
	Circles  []string      `xml:"circle"`
	GeoCodes []xmlKeyValue `xml:"geocode"`
	Altitude *string       `xml:"altitude"`
	Ceiling  *string       `xml:"ceiling"`
}

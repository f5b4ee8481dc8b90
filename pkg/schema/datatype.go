// Package schema holds collection schema types shared by the agent clients.
package schema

// DataType is the data type of a collection property
type DataType string

const (
	DataTypeText           DataType = "text"
	DataTypeTextArray      DataType = "text[]"
	DataTypeInt            DataType = "int"
	DataTypeIntArray       DataType = "int[]"
	DataTypeBool           DataType = "boolean"
	DataTypeBoolArray      DataType = "boolean[]"
	DataTypeNumber         DataType = "number"
	DataTypeNumberArray    DataType = "number[]"
	DataTypeDate           DataType = "date"
	DataTypeDateArray      DataType = "date[]"
	DataTypeUUID           DataType = "uuid"
	DataTypeUUIDArray      DataType = "uuid[]"
	DataTypeGeoCoordinates DataType = "geoCoordinates"
	DataTypeBlob           DataType = "blob"
	DataTypePhoneNumber    DataType = "phoneNumber"
	DataTypeObject         DataType = "object"
	DataTypeObjectArray    DataType = "object[]"
)

var dataTypes = []DataType{
	DataTypeText,
	DataTypeTextArray,
	DataTypeInt,
	DataTypeIntArray,
	DataTypeBool,
	DataTypeBoolArray,
	DataTypeNumber,
	DataTypeNumberArray,
	DataTypeDate,
	DataTypeDateArray,
	DataTypeUUID,
	DataTypeUUIDArray,
	DataTypeGeoCoordinates,
	DataTypeBlob,
	DataTypePhoneNumber,
	DataTypeObject,
	DataTypeObjectArray,
}

// DataTypes returns every known data type
func DataTypes() []DataType {
	out := make([]DataType, len(dataTypes))
	copy(out, dataTypes)
	return out
}

// Valid reports whether d is a known data type
func (d DataType) Valid() bool {
	for _, t := range dataTypes {
		if t == d {
			return true
		}
	}
	return false
}

// IsArray reports whether d holds a list of values
func (d DataType) IsArray() bool {
	n := len(d)
	return n > 2 && d[n-2:] == "[]"
}

package models

// Имена колонок исходного файла с камерами
const (
	FieldDistrict     = "DISTRICT"
	FieldMandal       = "MANDAL"
	FieldLocationName = "LOCATION NAME"
	FieldLatitude     = "LATITUDE"
	FieldLongitude    = "LONGITUDE"
	FieldCameraType   = "TYPE OF CAMERA"
	FieldAnalytics    = "Type Of Analytics"
)

// RawRow - строка источника данных до нормализации. Отсутствующее поле просто не попадает в map.
type RawRow map[string]string

// CameraRecord представляет нормализованную запись о камере
type CameraRecord map[string]string

func (r CameraRecord) District() string     { return r[FieldDistrict] }
func (r CameraRecord) Mandal() string       { return r[FieldMandal] }
func (r CameraRecord) LocationName() string { return r[FieldLocationName] }
func (r CameraRecord) Latitude() string     { return r[FieldLatitude] }
func (r CameraRecord) Longitude() string    { return r[FieldLongitude] }
func (r CameraRecord) CameraType() string   { return r[FieldCameraType] }
func (r CameraRecord) Analytics() string    { return r[FieldAnalytics] }

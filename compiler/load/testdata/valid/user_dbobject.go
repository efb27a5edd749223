package valid

// Generated files are never read back.
//
//dbobject:generate
type UserDBObject struct {
	X int `dbcolumn:"x"`
}

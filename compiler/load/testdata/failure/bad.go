package failure

//dbobject:generate
type Bad struct {
	mAge int `dbcolumn:"version=two"`
}

//dbobject:generate
type Good struct {
	mAge int `dbcolumn:"age"`
}

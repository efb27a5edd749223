package valid

// User is a registered account.
//
//dbobject:generate latestVersion=2
type User struct {
	mUserName string  `dbcolumn:"allowNull=false,primary=true"`
	mAge      int     `dbcolumn:""`
	mMarried  bool    `dbcolumn:"allowNull=false"`
	mScore    float64 `dbcolumn:"version=2"`
	mCache    string
	mToken    string `dbcolumn:"-"`
}

// Session is not annotated.
type Session struct {
	ID string `dbcolumn:"id"`
}

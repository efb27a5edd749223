// Package gen generates versioned persistence objects from annotated object
// types.
//
// # Architecture
//
// Every annotated type runs through its own pipeline:
//
//	load.Schema (fields with dbcolumn annotations)
//	        ↓
//	   ColumnBuilder (naming, type mapping, defaults)
//	        ↓
//	   VersionGroups (columns partitioned by version)
//	        ↓
//	   Type (model of the generated object)
//	        ↓
//	   Synthesize + Render (jennifer AST, formatted source)
//	        ↓
//	   Writer (<name>_dbobject.go)
//
// Pipelines share no state and run concurrently. Their diagnostics are
// buffered and replayed in input order, so repeated runs on the same input
// produce the same files and the same messages.
//
// # Generated Code
//
// For a type User with a column added at version 2:
//
//	type UserDBObject struct {
//		*dbobject.DatabaseObject
//	}
//
//	var (
//		UserColumnUserName = dbobject.NewTextColumn("user_name", false, false, 1)
//		UserColumnScore    = dbobject.NewDoubleColumn("score", true, false, 2)
//	)
//
//	var (
//		UserColumnsV1 = []*dbobject.Column{UserColumnUserName}
//		UserColumnsV2 = []*dbobject.Column{UserColumnUserName, UserColumnScore}
//	)
//
//	func NewUserDBObject(ctx context.Context) (*UserDBObject, error)
//	func NewUserDBObjectVersion(ctx context.Context, version int) (*UserDBObject, error)
//
// A version without a column collection makes the constructors fail with an
// error matching dbobject.ErrUnknownVersion.
//
// # Error Handling
//
// Field and type level problems are reported through the Reporter and never
// abort the run:
//
//   - unsupported field types and empty identifiers skip the field
//   - malformed boolean annotations fall back to their defaults
//   - types without valid columns are skipped
//   - render and write failures are reported per type
//
// Configuration problems are returned as *ConfigError.
package gen

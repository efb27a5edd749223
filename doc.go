// Package dbobject is the runtime of the persistence objects generated by
// dbgen.
//
// A generated object embeds *DatabaseObject and binds, at construction, the
// column collection of the requested schema version to its Template:
//
//	o, err := models.NewUserDBObjectVersion(ctx, 1)
//	if errors.Is(err, dbobject.ErrUnknownVersion) {
//		// no columns were declared for version 1
//	}
//	err = o.SetUserName("a8m")
//
// Values are kept in memory, keyed by column name. Reading and writing the
// store is left to the caller.
package dbobject

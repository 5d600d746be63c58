// Package etl harvests the items of one ArcGIS group into DataCite-like
// documents.
//
// An ETL is built from three parts:
//
//   - Extractor walks the paginated group search lazily and resolves the
//     owner of every item, yielding one Unit per item.
//   - The field mapping functions (Titles, Dates, Subjects, ...) and the
//     link tables (WebLinks, ResearchData) turn an item into document parts.
//   - Transformer assembles one document per Unit.
//
// Sequences are Go iterators and are consumed one page at a time:
//
//	e := etl.New(name, baseURL, groupID, client)
//	if err := e.Init(ctx); err != nil {
//		return err
//	}
//	for doc, err := range e.Documents(ctx) {
//		...
//	}
package etl

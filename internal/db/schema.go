package db

// SchemaSQL contains the database schema initialization SQL.
// The %d verb is the HNSW index dimension (filled from config).
const SchemaSQL = `
    DEFINE TABLE IF NOT EXISTS event SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS details ON event TYPE object;
    DEFINE FIELD IF NOT EXISTS details.name ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.organizer ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.date ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.time ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.location ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.entry_type ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS details.website ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS full_text ON event TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS raw_ocr ON event TYPE option<array<string>>;
    DEFINE FIELD IF NOT EXISTS embedding ON event TYPE option<array<float>>;
    DEFINE FIELD IF NOT EXISTS created ON event TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS event_created ON event FIELDS created;
    DEFINE INDEX IF NOT EXISTS event_embedding ON event FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
`

// Package texcache gives 2D bitmaps a content identity, derives hit-box
// polygons from their alpha channel, and caches both so that repeated
// loads, flips, rotations and crops of the same pixels are free.
//
// # Quick start
//
// Build one [CacheManager] at startup and load everything through it:
//
//	m, err := texcache.NewCacheManager(texcache.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close()
//
//	hero, err := m.LoadTexture("hero.png", texcache.LoadOptions{})
//	left := hero.FlipLeftRight() // no pixel copy, hit box transformed
//	pts := left.HitBoxPoints()
//
// Loading the same file again returns the same [*Texture]. Loading a crop
// returns a texture over a new [ImageRecord] with its own hash.
//
// # Identity
//
// An [ImageRecord] is identified by a hash of its pixel bytes. A
// [Texture] is an oriented view of a record with a hit-box algorithm; its
// [Texture.CacheName] is
//
//	<hash>|<vertex order>|<algorithm>|<params>
//
// and its [Texture.AtlasName] drops the algorithm part, so textures that
// only differ in hit-box settings share atlas space.
//
// # Hit boxes
//
// Three algorithms are built in: [Bounding] (the image rectangle),
// [Simple] (alpha trim plus diagonal corner cuts, 4 to 8 points) and
// [Detailed] (contour tracing plus simplification). Points are centered
// on the image with Y pointing up. More algorithms can be added with
// [RegisterHitBoxAlgorithm].
//
// # Orientation
//
// Flips and quarter turns are stored as a [VertexOrder], one of the eight
// symmetries of a square. Any sequence of transforms reduces to one of
// them, so two textures reached by different but equivalent sequences
// compare equal.
//
// # Caches
//
// [ImageCache], [TextureCache] and [HitBoxCache] hold entries strongly or
// weakly. Weak entries disappear after the garbage collector reclaims the
// value; a miss is never an error. The hit-box cache can be saved to and
// loaded from JSON, optionally gzip-compressed, so hit boxes are computed
// once across runs.
//
// # Atlases
//
// [Atlas] uploads pixels to ebiten once per content hash and keeps a
// region per atlas name, using two [RefCounter] instances to know when
// either can be released.
//
// # Threading
//
// Caches, counters and managers are not safe for concurrent use. The only
// background goroutine is the optional file [Watcher], which just queues
// changed paths for [CacheManager.ProcessReloads].
package texcache

// Package tagresolver picks the image tag that is the current latest
// release artifact for a source tag. The source tag carries a dotted
// four-part version (infrastructure.major.basePatch.dockerPatch); the
// first two parts name the release line and only registry tags of
// that line are considered.
//
// Two selection policies exist. ReleaseCandidate ranks tags of the form
// I.M.B.D_RC<n> and prefers the highest candidate built for the exact
// patch pair of the source tag. Simple ranks tags ending in
// I.M.B.D_CALVIN_TEST and always returns the highest one.
package tagresolver

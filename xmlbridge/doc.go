// Package xmlbridge converts YAX documents to and from XML.
//
// Every node becomes one element named after its resolved tag. Scalar values are the
// element's text; there is no attribute compaction, so the XML mirrors the binary tree
// node for node:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<root>
//		<event>
//			<name>開始</name>
//			<wait type="f32">0.5</wait>
//		</event>
//	</root>
//
// Attributes carry what text alone cannot express:
//
//	type   value type for everything but non-blank text ("u32", "f32", "bytes", ...)
//	enc    "base64" when text holds characters XML 1.0 cannot represent
//	value  the value of a node that also has children
//	str    annotation: name of a 0x-prefixed hash value (ignored on read)
//	id     annotation: hex tag of an unresolved element name (ignored on read)
//
// Writing streams tokens, so peak memory does not grow with the size of the output.
package xmlbridge

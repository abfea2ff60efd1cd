package hashname

// knownNames lists the tag names recovered from scene and script trees.
var knownNames = []string{
	"action",
	"area",
	"areaIndex",
	"attr",
	"bezier",
	"children",
	"code",
	"count",
	"data",
	"delay",
	"enemyGenerator",
	"enemySet",
	"entity",
	"event",
	"flag",
	"group",
	"hap_id",
	"header",
	"id",
	"index",
	"item",
	"layouts",
	"level",
	"location",
	"max",
	"message",
	"min",
	"name",
	"node",
	"normal",
	"num",
	"objId",
	"param",
	"parent",
	"point",
	"pos",
	"position",
	"radius",
	"rate",
	"rot",
	"rotation",
	"scale",
	"script",
	"setFlag",
	"setRtn",
	"setType",
	"size",
	"spawn",
	"sub",
	"tag",
	"target",
	"text",
	"time",
	"trans",
	"type",
	"value",
	"wait",
	"work",
}

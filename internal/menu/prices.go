package menu

// Saravanaa Bhavan Irvine menu. Names must match the wording the agent is
// instructed to use; pricing changes ship as a new build.

var items = []Item{
	// Appetizers
	{Name: "Idli (2 pcs)", Price: 7.49, Category: "Appetizers"},
	{Name: "Mini Idli (8 pcs)", Price: 8.49, Category: "Appetizers"},
	{Name: "Sambar Idli", Price: 9.49, Category: "Appetizers"},
	{Name: "Ghee Idli", Price: 8.99, Category: "Appetizers"},
	{Name: "Medu Vada (2 pcs)", Price: 7.99, Category: "Appetizers"},
	{Name: "Sambar Vada", Price: 9.49, Category: "Appetizers"},
	{Name: "Curd Vada", Price: 9.49, Category: "Appetizers"},
	{Name: "Rasa Vada", Price: 9.49, Category: "Appetizers"},
	{Name: "Idli Vada Combo", Price: 9.99, Category: "Appetizers"},
	{Name: "Samosa (2 pcs)", Price: 6.99, Category: "Appetizers"},
	{Name: "Vegetable Bonda (2 pcs)", Price: 7.49, Category: "Appetizers"},
	{Name: "Onion Pakoda", Price: 7.99, Category: "Appetizers"},
	{Name: "Gobi 65", Price: 11.99, Category: "Appetizers"},
	{Name: "Paneer 65", Price: 12.99, Category: "Appetizers"},
	{Name: "Chilli Paneer", Price: 13.49, Category: "Appetizers"},
	{Name: "Chilli Gobi", Price: 12.49, Category: "Appetizers"},
	{Name: "Gobi Manchurian", Price: 12.49, Category: "Appetizers"},
	{Name: "Cutlet (2 pcs)", Price: 7.99, Category: "Appetizers"},

	// Dosas
	{Name: "Plain Dosa", Price: 9.99, Category: "Dosas"},
	{Name: "Ghee Dosa", Price: 10.99, Category: "Dosas"},
	{Name: "Masala Dosa", Price: 11.49, Category: "Dosas"},
	{Name: "Ghee Masala Dosa", Price: 12.49, Category: "Dosas"},
	{Name: "Mysore Masala Dosa", Price: 12.99, Category: "Dosas"},
	{Name: "Onion Dosa", Price: 11.49, Category: "Dosas"},
	{Name: "Onion Masala Dosa", Price: 12.49, Category: "Dosas"},
	{Name: "Podi Dosa", Price: 11.49, Category: "Dosas"},
	{Name: "Ghee Podi Masala Dosa", Price: 13.49, Category: "Dosas"},
	{Name: "Paper Dosa", Price: 11.99, Category: "Dosas"},
	{Name: "Paper Masala Dosa", Price: 13.49, Category: "Dosas"},
	{Name: "Ghee Roast", Price: 12.49, Category: "Dosas"},
	{Name: "Ghee Masala Roast", Price: 13.49, Category: "Dosas"},
	{Name: "Paneer Dosa", Price: 13.49, Category: "Dosas"},
	{Name: "Paneer Masala Dosa", Price: 14.49, Category: "Dosas"},
	{Name: "Cheese Dosa", Price: 12.99, Category: "Dosas"},
	{Name: "Cheese Masala Dosa", Price: 13.99, Category: "Dosas"},
	{Name: "Spring Vegetable Dosa", Price: 13.49, Category: "Dosas"},
	{Name: "Rava Dosa", Price: 11.99, Category: "Dosas"},
	{Name: "Rava Masala Dosa", Price: 13.49, Category: "Dosas"},
	{Name: "Onion Rava Dosa", Price: 12.99, Category: "Dosas"},
	{Name: "Onion Rava Masala Dosa", Price: 13.99, Category: "Dosas"},
	{Name: "Set Dosa (3 pcs)", Price: 11.49, Category: "Dosas"},
	{Name: "Pesarattu Dosa", Price: 12.49, Category: "Dosas"},
	{Name: "Adai Avial", Price: 12.99, Category: "Dosas"},

	// Uthappams
	{Name: "Plain Uthappam", Price: 10.99, Category: "Uthappams"},
	{Name: "Onion Uthappam", Price: 11.99, Category: "Uthappams"},
	{Name: "Tomato Uthappam", Price: 11.99, Category: "Uthappams"},
	{Name: "Onion Tomato Uthappam", Price: 12.49, Category: "Uthappams"},
	{Name: "Onion Chilli Uthappam", Price: 12.49, Category: "Uthappams"},
	{Name: "Mixed Vegetable Uthappam", Price: 12.99, Category: "Uthappams"},
	{Name: "Podi Uthappam", Price: 12.49, Category: "Uthappams"},
	{Name: "Pineapple Uthappam", Price: 12.49, Category: "Uthappams"},

	// Chaat
	{Name: "Samosa Chaat", Price: 9.99, Category: "Chaat"},
	{Name: "Papdi Chaat", Price: 9.49, Category: "Chaat"},
	{Name: "Bhel Puri", Price: 8.99, Category: "Chaat"},
	{Name: "Pani Puri", Price: 8.99, Category: "Chaat"},
	{Name: "Dahi Puri", Price: 9.49, Category: "Chaat"},
	{Name: "Aloo Tikki Chaat", Price: 9.99, Category: "Chaat"},

	// North Indian curries
	{Name: "Paneer Butter Masala", Price: 15.49, Category: "North Indian"},
	{Name: "Palak Paneer", Price: 15.49, Category: "North Indian"},
	{Name: "Kadai Paneer", Price: 15.49, Category: "North Indian"},
	{Name: "Paneer Tikka Masala", Price: 15.99, Category: "North Indian"},
	{Name: "Malai Kofta", Price: 15.49, Category: "North Indian"},
	{Name: "Channa Masala", Price: 13.99, Category: "North Indian"},
	{Name: "Aloo Gobi Masala", Price: 13.99, Category: "North Indian"},
	{Name: "Dal Fry", Price: 12.99, Category: "North Indian"},
	{Name: "Dal Makhani", Price: 13.99, Category: "North Indian"},
	{Name: "Mixed Vegetable Curry", Price: 13.99, Category: "North Indian"},
	{Name: "Mushroom Masala", Price: 14.49, Category: "North Indian"},
	{Name: "Vegetable Korma", Price: 13.99, Category: "North Indian"},

	// South Indian curries
	{Name: "Sambar", Price: 6.99, Category: "South Indian"},
	{Name: "Vatha Kuzhambu", Price: 9.99, Category: "South Indian"},
	{Name: "Avial", Price: 10.99, Category: "South Indian"},
	{Name: "Poriyal of the Day", Price: 9.49, Category: "South Indian"},
	{Name: "Kootu of the Day", Price: 9.49, Category: "South Indian"},

	// Breads
	{Name: "Chapathi (2 pcs)", Price: 8.49, Category: "Breads"},
	{Name: "Poori (2 pcs)", Price: 9.49, Category: "Breads"},
	{Name: "Poori Masala", Price: 11.49, Category: "Breads"},
	{Name: "Batura (1 pc)", Price: 9.49, Category: "Breads"},
	{Name: "Channa Batura", Price: 12.99, Category: "Breads"},
	{Name: "Parotta (2 pcs)", Price: 9.99, Category: "Breads"},
	{Name: "Kothu Parotta", Price: 13.49, Category: "Breads"},
	{Name: "Naan", Price: 3.99, Category: "Breads"},
	{Name: "Butter Naan", Price: 4.49, Category: "Breads"},
	{Name: "Garlic Naan", Price: 4.99, Category: "Breads"},

	// Rice
	{Name: "Plain Rice", Price: 4.99, Category: "Rice"},
	{Name: "Lemon Rice", Price: 10.99, Category: "Rice"},
	{Name: "Tamarind Rice", Price: 10.99, Category: "Rice"},
	{Name: "Tomato Rice", Price: 10.99, Category: "Rice"},
	{Name: "Curd Rice", Price: 10.49, Category: "Rice"},
	{Name: "Coconut Rice", Price: 10.99, Category: "Rice"},
	{Name: "Bisi Bele Bath", Price: 11.99, Category: "Rice"},
	{Name: "Vegetable Biryani", Price: 13.49, Category: "Rice"},
	{Name: "Paneer Biryani", Price: 14.49, Category: "Rice"},
	{Name: "Sambar Rice", Price: 10.99, Category: "Rice"},
	{Name: "Pongal", Price: 10.99, Category: "Rice"},
	{Name: "Rava Kichadi", Price: 10.49, Category: "Rice"},
	{Name: "Rava Upma", Price: 9.99, Category: "Rice"},
	{Name: "Curry Leaves Rice", Price: 10.99, Category: "Rice"},

	// Thali and combinations
	{Name: "South Indian Thali", Price: 17.99, Category: "Thali"},
	{Name: "North Indian Thali", Price: 17.99, Category: "Thali"},
	{Name: "Mini Tiffin", Price: 15.99, Category: "Thali"},

	// Indo-Chinese
	{Name: "Vegetable Fried Rice", Price: 12.99, Category: "Indo-Chinese"},
	{Name: "Paneer Fried Rice", Price: 13.99, Category: "Indo-Chinese"},
	{Name: "Vegetable Noodles", Price: 12.99, Category: "Indo-Chinese"},
	{Name: "Paneer Noodles", Price: 13.99, Category: "Indo-Chinese"},

	// Desserts
	{Name: "Gulab Jamun (2 pcs)", Price: 5.99, Category: "Desserts"},
	{Name: "Rasmalai (2 pcs)", Price: 6.49, Category: "Desserts"},
	{Name: "Kesari", Price: 5.99, Category: "Desserts"},
	{Name: "Payasam", Price: 5.99, Category: "Desserts"},
	{Name: "Carrot Halwa", Price: 6.49, Category: "Desserts"},
	{Name: "Badam Halwa", Price: 7.49, Category: "Desserts"},
	{Name: "Mysore Pak", Price: 5.99, Category: "Desserts"},
	{Name: "Ice Cream (1 scoop)", Price: 3.99, Category: "Desserts"},

	// Beverages
	{Name: "Madras Filter Coffee", Price: 4.49, Category: "Beverages"},
	{Name: "Masala Tea", Price: 4.49, Category: "Beverages"},
	{Name: "Mango Lassi", Price: 6.49, Category: "Beverages"},
	{Name: "Sweet Lassi", Price: 5.99, Category: "Beverages"},
	{Name: "Salt Lassi", Price: 5.99, Category: "Beverages"},
	{Name: "Buttermilk", Price: 4.99, Category: "Beverages"},
	{Name: "Badam Milk", Price: 5.99, Category: "Beverages"},
	{Name: "Fresh Lime Juice", Price: 5.49, Category: "Beverages"},
	{Name: "Mango Juice", Price: 5.99, Category: "Beverages"},
	{Name: "Bottled Water", Price: 1.99, Category: "Beverages"},
	{Name: "Soda Can", Price: 2.49, Category: "Beverages"},
}
